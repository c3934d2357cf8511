package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/contacttriage/internal/application"
	"github.com/ericfisherdev/contacttriage/internal/domain/model"
)

// newClassifier wires a ClassifierService over an in-memory store holding
// storedKey and a factory that always returns analyzer.
func newClassifier(storedKey, envKey string, factory *recordingFactory) *application.ClassifierService {
	store := newMockCredentialStore()
	if storedKey != "" {
		store.values[model.GeminiService] = storedKey
	}
	creds := application.NewCredentialService(store, envKey, discardLogger())
	provider := application.NewAnalyzerProvider(factory.build, discardLogger())
	return application.NewClassifierService(creds, provider, discardLogger())
}

func TestClassify_NoCredentialReturnsDefault(t *testing.T) {
	analyzer := &mockAnalyzer{}
	factory := &recordingFactory{analyzer: analyzer}
	svc := newClassifier("", "", factory)

	got := svc.Classify(context.Background(), "Hello, can you build us an app?")

	assert.Equal(t, model.Classification{
		Category:        "General Inquiry",
		Priority:        "Normal",
		Sentiment:       "Neutral",
		SuggestedAction: "Reply within 24 hours.",
	}, got)
	assert.Zero(t, analyzer.calls, "no model call without a credential")
	assert.Empty(t, factory.builtKeys())
}

func TestClassify_SuccessReturnsModelOutputUnchanged(t *testing.T) {
	analyzer := &mockAnalyzer{
		text: `{"category":"Job Application","priority":"Low","sentiment":"Casual","suggestedAction":"Forward to **HR**."}`,
	}
	svc := newClassifier("stored-key", "", &recordingFactory{analyzer: analyzer})

	got := svc.Classify(context.Background(), "I'd love to work with you")

	assert.Equal(t, model.Classification{
		Category:        "Job Application",
		Priority:        "Low",
		Sentiment:       "Casual",
		SuggestedAction: "Forward to **HR**.",
	}, got)
	assert.Equal(t, []string{"I'd love to work with you"}, analyzer.messages)
}

func TestClassify_FailuresReturnFailureFallback(t *testing.T) {
	tests := []struct {
		name     string
		analyzer *mockAnalyzer
	}{
		{name: "network error", analyzer: &mockAnalyzer{err: errMockNetwork}},
		{name: "empty body", analyzer: &mockAnalyzer{text: ""}},
		{name: "whitespace body", analyzer: &mockAnalyzer{text: "  \n"}},
		{name: "malformed json", analyzer: &mockAnalyzer{text: `{"category": "New Project",`}},
		{name: "missing field", analyzer: &mockAnalyzer{text: `{"category":"Support","priority":"High","sentiment":"Angry"}`}},
		{name: "non-string field", analyzer: &mockAnalyzer{text: `{"category":"Support","priority":3,"sentiment":"Angry","suggestedAction":"Call."}`}},
		{name: "panic", analyzer: &mockAnalyzer{panicMsg: "boom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newClassifier("stored-key", "", &recordingFactory{analyzer: tt.analyzer})

			got := svc.Classify(context.Background(), "message")

			assert.Equal(t, model.Classification{
				Category:        "Unknown",
				Priority:        "Medium",
				Sentiment:       "Neutral",
				SuggestedAction: "Manual review required.",
			}, got)
			assert.Equal(t, 1, tt.analyzer.calls, "no retry on failure")
		})
	}
}

func TestClassify_FactoryErrorReturnsFailureFallback(t *testing.T) {
	svc := newClassifier("stored-key", "", &recordingFactory{err: errors.New("bad key format")})

	got := svc.Classify(context.Background(), "message")

	assert.Equal(t, model.FailureClassification(), got)
}

func TestClassify_UsesEnvCredentialWhenStoreEmpty(t *testing.T) {
	analyzer := &mockAnalyzer{
		text: `{"category":"Support","priority":"High","sentiment":"Urgent","suggestedAction":"Call back today."}`,
	}
	factory := &recordingFactory{analyzer: analyzer}
	svc := newClassifier("", "env-key", factory)

	got := svc.Classify(context.Background(), "Our site is down!")

	assert.Equal(t, "Support", got.Category)
	assert.Equal(t, []string{"env-key"}, factory.builtKeys())
}

func TestClassify_StoredCredentialTakesPrecedence(t *testing.T) {
	factory := &recordingFactory{analyzer: &mockAnalyzer{text: `{}`}}
	svc := newClassifier("stored-key", "env-key", factory)

	svc.Classify(context.Background(), "message")

	assert.Equal(t, []string{"stored-key"}, factory.builtKeys())
}

// TestClassify_AlwaysReturnsFourFields exercises arbitrary inputs across the
// credential and failure branches.
func TestClassify_AlwaysReturnsFourFields(t *testing.T) {
	inputs := []string{"", "hi", `"quoted"`, "{\"category\":1}", "ünïcödé ✓", string(make([]byte, 4096))}

	branches := map[string]*application.ClassifierService{
		"no credential": newClassifier("", "", &recordingFactory{analyzer: &mockAnalyzer{}}),
		"failure":       newClassifier("k", "", &recordingFactory{analyzer: &mockAnalyzer{err: errMockNetwork}}),
		"success": newClassifier("k", "", &recordingFactory{analyzer: &mockAnalyzer{
			text: `{"category":"a","priority":"b","sentiment":"c","suggestedAction":"d"}`,
		}}),
	}

	for name, svc := range branches {
		for i, input := range inputs {
			t.Run(fmt.Sprintf("%s/%d", name, i), func(t *testing.T) {
				got := svc.Classify(context.Background(), input)
				assert.NotEmpty(t, got.Category)
				assert.NotEmpty(t, got.Priority)
				assert.NotEmpty(t, got.Sentiment)
				assert.NotEmpty(t, got.SuggestedAction)
			})
		}
	}
}

func TestClassify_ConcurrentCallsAreIndependent(t *testing.T) {
	analyzer := &mockAnalyzer{
		text: `{"category":"Partnership","priority":"Medium","sentiment":"Professional","suggestedAction":"Reply."}`,
	}
	factory := &recordingFactory{analyzer: analyzer}
	svc := newClassifier("stored-key", "", factory)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			got := svc.Classify(context.Background(), "message")
			assert.Equal(t, "Partnership", got.Category)
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, analyzer.calls)
	assert.Equal(t, []string{"stored-key"}, factory.builtKeys(), "analyzer built once per key")
}

func TestClassify_PicksUpCredentialChangeWithoutRestart(t *testing.T) {
	store := newMockCredentialStore()
	creds := application.NewCredentialService(store, "", discardLogger())
	factory := &recordingFactory{analyzer: &mockAnalyzer{
		text: `{"category":"a","priority":"b","sentiment":"c","suggestedAction":"d"}`,
	}}
	provider := application.NewAnalyzerProvider(factory.build, discardLogger())
	creds.Subscribe(provider.Replace)
	svc := application.NewClassifierService(creds, provider, discardLogger())
	ctx := context.Background()

	require.Equal(t, model.NoCredentialClassification(), svc.Classify(ctx, "m"))

	require.NoError(t, creds.Store(ctx, "fresh-key"))
	assert.True(t, provider.HasAnalyzer())
	assert.Equal(t, "a", svc.Classify(ctx, "m").Category)

	require.NoError(t, creds.Clear(ctx))
	assert.False(t, provider.HasAnalyzer())
	assert.Equal(t, model.NoCredentialClassification(), svc.Classify(ctx, "m"))
}
