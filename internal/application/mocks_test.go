package application_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/contacttriage/internal/domain/port/driven"
)

// --- Mock implementations ---

// mockCredentialStore is an in-memory driven.CredentialStore.
type mockCredentialStore struct {
	mu      sync.Mutex
	values  map[string]string
	getErr  error
	setErr  error
	sets    int
	deletes int
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{values: make(map[string]string)}
}

func (m *mockCredentialStore) Set(_ context.Context, service, plaintext string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.values[service] = plaintext
	return nil
}

func (m *mockCredentialStore) Get(_ context.Context, service string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[service], nil
}

func (m *mockCredentialStore) Delete(_ context.Context, service string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.values, service)
	return nil
}

// mockAnalyzer returns a canned response or error.
type mockAnalyzer struct {
	mu       sync.Mutex
	text     string
	err      error
	panicMsg string
	calls    int
	messages []string
}

func (m *mockAnalyzer) Analyze(_ context.Context, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = append(m.messages, message)
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.text, m.err
}

// recordingFactory is a driven.AnalyzerFactory that hands out one analyzer
// and records the keys it was asked to build for.
type recordingFactory struct {
	mu       sync.Mutex
	analyzer driven.Analyzer
	err      error
	keys     []string
}

func (f *recordingFactory) build(_ context.Context, apiKey string) (driven.Analyzer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, apiKey)
	if f.err != nil {
		return nil, f.err
	}
	return f.analyzer, nil
}

func (f *recordingFactory) builtKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

var errMockNetwork = errors.New("dial tcp: connection refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
