package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/contacttriage/internal/domain/model"
	"github.com/ericfisherdev/contacttriage/internal/metrics"
)

var errEmptyResponse = errors.New("empty response from analyzer")

// ClassifierService classifies inbound contact messages. Classify is total:
// a missing credential and every failure of the model call resolve to fixed
// fallback classifications instead of errors.
type ClassifierService struct {
	creds     *CredentialService
	analyzers *AnalyzerProvider
	logger    *slog.Logger
}

// NewClassifierService creates a ClassifierService.
func NewClassifierService(creds *CredentialService, analyzers *AnalyzerProvider, logger *slog.Logger) *ClassifierService {
	return &ClassifierService{
		creds:     creds,
		analyzers: analyzers,
		logger:    logger,
	}
}

// Classify resolves the credential and asks the model for a classification of
// message. The credential is resolved on every call. No retry is attempted.
func (s *ClassifierService) Classify(ctx context.Context, message string) (result model.Classification) {
	outcome := metrics.OutcomeSuccess
	defer func() {
		if v := recover(); v != nil {
			s.logger.Error("classification panicked", "panic", v)
			outcome = metrics.OutcomeFailure
			result = model.FailureClassification()
		}
		metrics.ClassificationsTotal.WithLabelValues(outcome).Inc()
	}()

	apiKey := s.creds.Resolve(ctx)
	if apiKey == "" {
		s.logger.Warn("no API key configured, returning default classification")
		outcome = metrics.OutcomeNoCredential
		return model.NoCredentialClassification()
	}

	classification, err := s.analyze(ctx, apiKey, message)
	if err != nil {
		s.logger.Error("classification failed", "error", err)
		outcome = metrics.OutcomeFailure
		return model.FailureClassification()
	}
	return classification
}

func (s *ClassifierService) analyze(ctx context.Context, apiKey, message string) (model.Classification, error) {
	analyzer, err := s.analyzers.For(ctx, apiKey)
	if err != nil {
		return model.Classification{}, fmt.Errorf("build analyzer: %w", err)
	}

	start := time.Now()
	text, err := analyzer.Analyze(ctx, message)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.AnalyzerRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if err != nil {
		return model.Classification{}, fmt.Errorf("analyze message: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		return model.Classification{}, errEmptyResponse
	}

	classification, err := model.ParseClassification([]byte(text))
	if err != nil {
		return model.Classification{}, fmt.Errorf("parse analyzer response: %w", err)
	}
	return classification, nil
}
