package controller

import (
	"errors"
	"fmt"
	"log/slog"

	"stocklens/pkg/inference"
)

var ErrUnknownView = errors.New("unknown view")

// Backend is the full set of inference calls. *inference.Client satisfies it.
type Backend interface {
	MovementPredictor
	ArticleFetcher
	Summarizer
	SentimentPredictor
	RelevancePredictor
}

// Factory mounts a fresh controller for a view name.
type Factory struct {
	backend Backend
	shape   inference.SummaryShape
	logger  *slog.Logger
}

func NewFactory(backend Backend, shape inference.SummaryShape, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{backend: backend, shape: shape, logger: logger}
}

func (f *Factory) Views() []string {
	return []string{ViewPrediction, ViewFeed, ViewSummary, ViewSentiment, ViewRelevance}
}

func (f *Factory) Mount(view string) (Controller, error) {
	switch view {
	case ViewPrediction:
		return NewPrediction(f.backend, f.logger), nil
	case ViewFeed:
		return NewFeed(f.backend, f.logger), nil
	case ViewSummary:
		return NewSummary(f.backend, f.shape, f.logger), nil
	case ViewSentiment:
		return NewSentiment(f.backend, f.logger), nil
	case ViewRelevance:
		return NewRelevance(f.backend, f.logger), nil
	}
	return nil, fmt.Errorf("%q: %w", view, ErrUnknownView)
}
