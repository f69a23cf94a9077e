package controller

import (
	"context"
	"log/slog"

	"stocklens/internal/model"
)

const (
	ViewSentiment = "sentiment"
	ViewRelevance = "relevance"

	SentimentFallback = "An error occurred while analyzing sentiment."
	RelevanceFallback = "An error occurred while scoring relevance."
)

type SentimentPredictor interface {
	PredictSentiment(ctx context.Context, text string) (float64, error)
}

type RelevancePredictor interface {
	PredictRelevance(ctx context.Context, text, topic string) (float64, error)
}

type Sentiment struct {
	*core[model.SentimentInput, float64]
}

func NewSentiment(backend SentimentPredictor, logger *slog.Logger) *Sentiment {
	call := func(ctx context.Context, in model.SentimentInput) (float64, error) {
		return backend.PredictSentiment(ctx, in.Text())
	}
	return &Sentiment{newCore(ViewSentiment, SentimentFallback, model.SentimentInput{}, call, logger)}
}

func (s *Sentiment) Text() string { return s.snapshot().Text() }

func (s *Sentiment) SetText(text string) {
	s.update(func(in *model.SentimentInput) { in.SetText(text) })
}

type Relevance struct {
	*core[model.RelevanceInput, float64]
}

func NewRelevance(backend RelevancePredictor, logger *slog.Logger) *Relevance {
	call := func(ctx context.Context, in model.RelevanceInput) (float64, error) {
		return backend.PredictRelevance(ctx, in.Text(), in.Topic())
	}
	return &Relevance{newCore(ViewRelevance, RelevanceFallback, model.RelevanceInput{}, call, logger)}
}

func (r *Relevance) Text() string  { return r.snapshot().Text() }
func (r *Relevance) Topic() string { return r.snapshot().Topic() }

func (r *Relevance) SetText(text string) {
	r.update(func(in *model.RelevanceInput) { in.SetText(text) })
}

func (r *Relevance) SetTopic(topic string) {
	r.update(func(in *model.RelevanceInput) { in.SetTopic(topic) })
}
