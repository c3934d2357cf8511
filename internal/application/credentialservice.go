package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ericfisherdev/contacttriage/internal/domain/model"
	"github.com/ericfisherdev/contacttriage/internal/domain/port/driven"
	"github.com/ericfisherdev/contacttriage/internal/metrics"
)

// ErrEmptyCredential is returned by Store when the value is blank.
var ErrEmptyCredential = errors.New("credential is empty")

// CredentialService resolves the Gemini API key from the credential store,
// falling back to the environment-provided key, and publishes every change
// to subscribers so dependents refresh without a restart.
type CredentialService struct {
	store       driven.CredentialStore
	envFallback string
	logger      *slog.Logger

	mu          sync.Mutex
	subscribers []subscriber
	nextID      int
}

type subscriber struct {
	id int
	fn func(credential string)
}

// NewCredentialService creates a CredentialService. envFallback may be empty.
func NewCredentialService(store driven.CredentialStore, envFallback string, logger *slog.Logger) *CredentialService {
	return &CredentialService{
		store:       store,
		envFallback: envFallback,
		logger:      logger,
	}
}

// Resolve returns the authoritative credential, or "" if none is available.
// It never fails: a store error is logged and treated as absence.
func (s *CredentialService) Resolve(ctx context.Context) string {
	credential, _ := s.ResolveWithSource(ctx)
	return credential
}

// ResolveWithSource is Resolve that also reports where the value came from.
func (s *CredentialService) ResolveWithSource(ctx context.Context) (string, model.CredentialSource) {
	if stored := s.Stored(ctx); stored != "" {
		return stored, model.CredentialSourceStore
	}
	if s.envFallback != "" {
		return s.envFallback, model.CredentialSourceEnv
	}
	return "", model.CredentialSourceNone
}

// Stored returns only the persisted credential, ignoring the environment
// fallback. Returns "" when nothing is stored or the store is unreadable.
func (s *CredentialService) Stored(ctx context.Context) string {
	value, err := s.store.Get(ctx, model.GeminiService)
	if err != nil {
		s.logger.Warn("credential store read failed, treating as absent",
			"service", model.GeminiService,
			"error", err,
		)
		return ""
	}
	return value
}

// Store persists the trimmed value. A blank value returns ErrEmptyCredential
// and leaves the store untouched.
func (s *CredentialService) Store(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyCredential
	}

	if err := s.store.Set(ctx, model.GeminiService, value); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	metrics.CredentialChangesTotal.WithLabelValues("store").Inc()
	s.logger.Info("credential stored", "service", model.GeminiService)

	s.publish(ctx)
	return nil
}

// Clear deletes the stored credential. Subsequent resolution falls back to
// the environment value.
func (s *CredentialService) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, model.GeminiService); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	metrics.CredentialChangesTotal.WithLabelValues("clear").Inc()
	s.logger.Info("credential cleared", "service", model.GeminiService)

	s.publish(ctx)
	return nil
}

// Subscribe registers fn to receive the newly resolved credential after each
// Store or Clear. fn runs synchronously on the mutating goroutine. The
// returned function removes the subscription.
func (s *CredentialService) Subscribe(fn func(credential string)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *CredentialService) publish(ctx context.Context) {
	credential := s.Resolve(ctx)

	s.mu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(credential)
	}
}
