package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// SavedResetDelay is how long the form shows the saved status before it
// resets to idle and closes.
const SavedResetDelay = time.Second

// FormStatus is the status of the credential entry form.
type FormStatus string

const (
	FormStatusIdle  FormStatus = "idle"
	FormStatusSaved FormStatus = "saved"
)

// Scheduler runs f once after d and returns a function that cancels the run
// if it has not started. f must not run before Scheduler returns.
// time.AfterFunc is used when none is given.
type Scheduler func(d time.Duration, f func()) (cancel func())

// FormView is a snapshot of the form for rendering.
type FormView struct {
	Open   bool
	Input  string
	Status FormStatus
	// ShowClear is true when the field holds any text.
	ShowClear bool
	// CanSave is true when the field holds non-whitespace text.
	CanSave bool
}

// CredentialForm is the state machine behind the credential entry form:
// open/closed, the current input, and an idle/saved status. The application
// serves a single local user, so one form instance is shared by the GUI.
type CredentialForm struct {
	creds    *CredentialService
	schedule Scheduler

	mu        sync.Mutex
	open      bool
	input     string
	status    FormStatus
	onSettled func()

	// settleGen identifies the latest scheduled reset. A reset carrying an
	// older generation is stale and does nothing.
	settleGen    uint64
	cancelSettle func()
}

// NewCredentialForm creates a closed, idle form. schedule may be nil.
func NewCredentialForm(creds *CredentialService, schedule Scheduler) *CredentialForm {
	if schedule == nil {
		schedule = func(d time.Duration, f func()) func() {
			t := time.AfterFunc(d, f)
			return func() { t.Stop() }
		}
	}
	return &CredentialForm{
		creds:    creds,
		schedule: schedule,
		status:   FormStatusIdle,
	}
}

// OnSettled registers fn to run after a save has settled, that is when the
// saved status resets and the form closes. It replaces any earlier hook.
func (f *CredentialForm) OnSettled(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onSettled = fn
}

// Open shows the form populated with the stored credential, if any.
func (f *CredentialForm) Open(ctx context.Context) {
	stored := f.creds.Stored(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	f.input = stored
}

// SetInput replaces the field contents.
func (f *CredentialForm) SetInput(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = value
}

// Save stores the trimmed input. Blank input is a no-op that returns false
// and leaves the status unchanged. On success the status becomes saved and,
// after SavedResetDelay, returns to idle, the form closes and the settled
// hook runs. Saving again before then restarts the delay.
func (f *CredentialForm) Save(ctx context.Context) (bool, error) {
	f.mu.Lock()
	value := strings.TrimSpace(f.input)
	f.mu.Unlock()

	if value == "" {
		return false, nil
	}

	if err := f.creds.Store(ctx, value); err != nil {
		if errors.Is(err, ErrEmptyCredential) {
			return false, nil
		}
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = value
	f.status = FormStatusSaved
	f.stopSettleLocked()
	gen := f.settleGen
	f.cancelSettle = f.schedule(SavedResetDelay, func() { f.settle(gen) })
	return true, nil
}

func (f *CredentialForm) settle(gen uint64) {
	f.mu.Lock()
	if gen != f.settleGen {
		f.mu.Unlock()
		return
	}
	f.cancelSettle = nil
	f.status = FormStatusIdle
	f.open = false
	hook := f.onSettled
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Clear deletes the stored credential and empties the field. The status
// returns to idle, any pending reset is dropped and the form stays open.
func (f *CredentialForm) Clear(ctx context.Context) error {
	if err := f.creds.Clear(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = ""
	f.status = FormStatusIdle
	f.stopSettleLocked()
	return nil
}

// stopSettleLocked cancels the pending reset, if any. f.mu must be held.
func (f *CredentialForm) stopSettleLocked() {
	f.settleGen++
	if f.cancelSettle != nil {
		f.cancelSettle()
		f.cancelSettle = nil
	}
}

// Close hides the form, discarding unsaved input.
func (f *CredentialForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.input = ""
}

// View returns a snapshot of the form state.
func (f *CredentialForm) View() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormView{
		Open:      f.open,
		Input:     f.input,
		Status:    f.status,
		ShowClear: f.input != "",
		CanSave:   strings.TrimSpace(f.input) != "",
	}
}
