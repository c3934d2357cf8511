package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/contacttriage/internal/domain/port/driven"
)

// AnalyzerProvider enables runtime hot-swap of the Analyzer. It holds a
// mutex-protected Analyzer built for one API key and rebuilds it whenever a
// different key is requested or published, so credential updates take effect
// without restarting the application.
type AnalyzerProvider struct {
	factory driven.AnalyzerFactory
	logger  *slog.Logger

	mu       sync.RWMutex
	analyzer driven.Analyzer
	apiKey   string
}

// NewAnalyzerProvider creates a provider that builds Analyzers with factory.
// No Analyzer is held until the first For or Replace call.
func NewAnalyzerProvider(factory driven.AnalyzerFactory, logger *slog.Logger) *AnalyzerProvider {
	return &AnalyzerProvider{
		factory: factory,
		logger:  logger,
	}
}

// For returns the Analyzer for apiKey, building and caching it if the held
// Analyzer was built for a different key.
func (p *AnalyzerProvider) For(ctx context.Context, apiKey string) (driven.Analyzer, error) {
	p.mu.RLock()
	if p.analyzer != nil && p.apiKey == apiKey {
		analyzer := p.analyzer
		p.mu.RUnlock()
		return analyzer, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have built it while the lock was released.
	if p.analyzer != nil && p.apiKey == apiKey {
		return p.analyzer, nil
	}

	analyzer, err := p.factory(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	p.analyzer = analyzer
	p.apiKey = apiKey
	return analyzer, nil
}

// Replace swaps the held Analyzer for one built with apiKey. An empty key
// drops the held Analyzer. It has the shape of a CredentialService
// subscriber.
func (p *AnalyzerProvider) Replace(apiKey string) {
	if apiKey == "" {
		p.mu.Lock()
		p.analyzer = nil
		p.apiKey = ""
		p.mu.Unlock()
		p.logger.Info("analyzer dropped, no credential available")
		return
	}

	if _, err := p.For(context.Background(), apiKey); err != nil {
		p.logger.Error("failed to rebuild analyzer after credential change", "error", err)
		return
	}
	p.logger.Info("analyzer rebuilt after credential change")
}

// HasAnalyzer returns true if an Analyzer is currently held.
func (p *AnalyzerProvider) HasAnalyzer() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.analyzer != nil
}
