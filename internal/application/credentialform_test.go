package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/contacttriage/internal/application"
	"github.com/ericfisherdev/contacttriage/internal/domain/model"
)

// scheduledRun is one callback captured by manualScheduler.
type scheduledRun struct {
	fn        func()
	cancelled bool
}

// manualScheduler captures scheduled callbacks so tests fire them explicitly.
type manualScheduler struct {
	mu      sync.Mutex
	delays  []time.Duration
	pending []*scheduledRun
}

func (s *manualScheduler) schedule(d time.Duration, f func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := &scheduledRun{fn: f}
	s.delays = append(s.delays, d)
	s.pending = append(s.pending, run)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		run.cancelled = true
	}
}

// take removes and returns the captured runs.
func (s *manualScheduler) take() []*scheduledRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs := s.pending
	s.pending = nil
	return runs
}

// fireAll runs every callback that was not cancelled.
func (s *manualScheduler) fireAll() {
	for _, run := range s.take() {
		s.mu.Lock()
		cancelled := run.cancelled
		s.mu.Unlock()
		if !cancelled {
			run.fn()
		}
	}
}

func (s *manualScheduler) cancelledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, run := range s.pending {
		if run.cancelled {
			n++
		}
	}
	return n
}

func newForm(store *mockCredentialStore, sched *manualScheduler) *application.CredentialForm {
	creds := application.NewCredentialService(store, "env-key", discardLogger())
	return application.NewCredentialForm(creds, sched.schedule)
}

func TestCredentialForm_StartsClosedAndIdle(t *testing.T) {
	form := newForm(newMockCredentialStore(), &manualScheduler{})

	view := form.View()

	assert.False(t, view.Open)
	assert.Equal(t, application.FormStatusIdle, view.Status)
	assert.Empty(t, view.Input)
}

func TestCredentialForm_OpenPopulatesStoredCredential(t *testing.T) {
	store := newMockCredentialStore()
	store.values[model.GeminiService] = "stored-key"
	form := newForm(store, &manualScheduler{})

	form.Open(context.Background())

	view := form.View()
	assert.True(t, view.Open)
	assert.Equal(t, "stored-key", view.Input)
	assert.True(t, view.ShowClear)
	assert.True(t, view.CanSave)
}

func TestCredentialForm_OpenWithoutStoredCredentialLeavesFieldEmpty(t *testing.T) {
	form := newForm(newMockCredentialStore(), &manualScheduler{})

	form.Open(context.Background())

	view := form.View()
	assert.True(t, view.Open)
	assert.Empty(t, view.Input, "environment fallback must not leak into the field")
	assert.False(t, view.ShowClear)
	assert.False(t, view.CanSave)
}

func TestCredentialForm_SaveBlankIsNoOp(t *testing.T) {
	store := newMockCredentialStore()
	sched := &manualScheduler{}
	form := newForm(store, sched)
	form.Open(context.Background())

	for _, blank := range []string{"", "   ", "\t"} {
		form.SetInput(blank)
		saved, err := form.Save(context.Background())

		require.NoError(t, err)
		assert.False(t, saved)
		assert.Equal(t, application.FormStatusIdle, form.View().Status)
	}
	assert.Zero(t, store.sets)
	assert.Empty(t, sched.pending)
}

func TestCredentialForm_BlankSaveWhileSavedKeepsSaved(t *testing.T) {
	store := newMockCredentialStore()
	sched := &manualScheduler{}
	form := newForm(store, sched)

	form.Open(context.Background())
	form.SetInput("new-key")
	_, err := form.Save(context.Background())
	require.NoError(t, err)
	require.Equal(t, application.FormStatusSaved, form.View().Status)

	form.SetInput("   ")
	saved, err := form.Save(context.Background())

	require.NoError(t, err)
	assert.False(t, saved)
	assert.Equal(t, application.FormStatusSaved, form.View().Status)
	assert.Equal(t, 1, store.sets)
	assert.Len(t, sched.delays, 1, "a blank save must not schedule another reset")
}

func TestCredentialForm_SecondSaveRestartsDelay(t *testing.T) {
	store := newMockCredentialStore()
	sched := &manualScheduler{}
	form := newForm(store, sched)

	settled := 0
	form.OnSettled(func() { settled++ })

	form.Open(context.Background())
	form.SetInput("first-key")
	_, err := form.Save(context.Background())
	require.NoError(t, err)
	form.SetInput("second-key")
	_, err = form.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sched.cancelledCount())
	runs := sched.take()
	require.Len(t, runs, 2)

	// The first timer may already be firing when it is stopped; it must not
	// cut the second save's saved status short.
	runs[0].fn()

	view := form.View()
	assert.Equal(t, application.FormStatusSaved, view.Status)
	assert.True(t, view.Open)
	assert.Zero(t, settled)

	runs[1].fn()

	view = form.View()
	assert.Equal(t, application.FormStatusIdle, view.Status)
	assert.False(t, view.Open)
	assert.Equal(t, 1, settled)
	assert.Equal(t, "second-key", store.values[model.GeminiService])
}

func TestCredentialForm_ClearDropsPendingReset(t *testing.T) {
	store := newMockCredentialStore()
	sched := &manualScheduler{}
	form := newForm(store, sched)

	settled := 0
	form.OnSettled(func() { settled++ })

	form.Open(context.Background())
	form.SetInput("new-key")
	_, err := form.Save(context.Background())
	require.NoError(t, err)
	require.NoError(t, form.Clear(context.Background()))

	assert.Equal(t, 1, sched.cancelledCount())
	for _, run := range sched.take() {
		run.fn()
	}

	view := form.View()
	assert.True(t, view.Open, "clearing keeps the form open")
	assert.Equal(t, application.FormStatusIdle, view.Status)
	assert.Zero(t, settled)
}

func TestCredentialForm_SaveTransitionsAndSettles(t *testing.T) {
	store := newMockCredentialStore()
	sched := &manualScheduler{}
	form := newForm(store, sched)

	settled := 0
	form.OnSettled(func() { settled++ })

	form.Open(context.Background())
	form.SetInput("  new-key  ")
	saved, err := form.Save(context.Background())

	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, "new-key", store.values[model.GeminiService])

	view := form.View()
	assert.Equal(t, application.FormStatusSaved, view.Status)
	assert.True(t, view.Open)
	assert.Equal(t, "new-key", view.Input)
	assert.Equal(t, []time.Duration{application.SavedResetDelay}, sched.delays)
	assert.Zero(t, settled)

	sched.fireAll()

	view = form.View()
	assert.Equal(t, application.FormStatusIdle, view.Status)
	assert.False(t, view.Open)
	assert.Equal(t, 1, settled)
}

func TestCredentialForm_SaveSettlesWithRealTimer(t *testing.T) {
	creds := application.NewCredentialService(newMockCredentialStore(), "", discardLogger())
	form := application.NewCredentialForm(creds, nil)

	done := make(chan struct{})
	form.OnSettled(func() { close(done) })

	form.Open(context.Background())
	form.SetInput("key")
	_, err := form.Save(context.Background())
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("form did not settle")
	}

	assert.Eventually(t, func() bool {
		v := form.View()
		return !v.Open && v.Status == application.FormStatusIdle
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCredentialForm_ClearRemovesCredential(t *testing.T) {
	store := newMockCredentialStore()
	store.values[model.GeminiService] = "stored-key"
	creds := application.NewCredentialService(store, "env-key", discardLogger())
	form := application.NewCredentialForm(creds, (&manualScheduler{}).schedule)

	form.Open(context.Background())
	require.NoError(t, form.Clear(context.Background()))

	view := form.View()
	assert.True(t, view.Open)
	assert.Empty(t, view.Input)
	assert.Equal(t, application.FormStatusIdle, view.Status)
	assert.Equal(t, 1, store.deletes)
	assert.Equal(t, "env-key", creds.Resolve(context.Background()))
}

func TestCredentialForm_CloseDiscardsUnsavedInput(t *testing.T) {
	store := newMockCredentialStore()
	form := newForm(store, &manualScheduler{})

	form.Open(context.Background())
	form.SetInput("typed-but-not-saved")
	form.Close()

	view := form.View()
	assert.False(t, view.Open)
	assert.Empty(t, view.Input)
	assert.Zero(t, store.sets)
}
