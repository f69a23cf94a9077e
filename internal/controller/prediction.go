package controller

import (
	"context"
	"log/slog"

	"stocklens/internal/model"
)

const (
	ViewPrediction = "prediction"

	PredictionFallback = "An error occurred while making the prediction."
)

type MovementPredictor interface {
	PredictMovement(ctx context.Context, text string) (string, error)
}

// Prediction submits article text and shows the movement label.
type Prediction struct {
	*core[model.PredictionInput, string]
}

func NewPrediction(backend MovementPredictor, logger *slog.Logger) *Prediction {
	call := func(ctx context.Context, in model.PredictionInput) (string, error) {
		return backend.PredictMovement(ctx, in.Text())
	}
	return &Prediction{newCore(ViewPrediction, PredictionFallback, model.PredictionInput{}, call, logger)}
}

func (p *Prediction) Text() string { return p.snapshot().Text() }

func (p *Prediction) SetText(text string) {
	p.update(func(in *model.PredictionInput) { in.SetText(text) })
}
