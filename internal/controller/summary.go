package controller

import (
	"context"
	"log/slog"

	"stocklens/internal/model"
	"stocklens/pkg/inference"
)

const (
	ViewSummary = "summary"

	SummaryFallback = "Failed to generate summary. Please check your input."
)

type Summarizer interface {
	GenerateSummary(ctx context.Context, req inference.SummaryRequest) (string, error)
}

// Summary submits article text with summarization parameters. The shape
// decides which parameters are shown and sent.
type Summary struct {
	*core[model.SummaryInput, string]
	shape inference.SummaryShape
}

func NewSummary(backend Summarizer, shape inference.SummaryShape, logger *slog.Logger) *Summary {
	call := func(ctx context.Context, in model.SummaryInput) (string, error) {
		return backend.GenerateSummary(ctx, inference.SummaryRequest{
			Shape:        shape,
			Text:         in.Text(),
			MaxLength:    in.MaxLength(),
			MinLength:    in.MinLength(),
			NumSentences: in.NumSentences(),
			NumLines:     in.NumLines(),
		})
	}

	c := newCore(ViewSummary, SummaryFallback, model.NewSummaryInput(), call, logger)
	c.fields = func(in model.SummaryInput) []model.Field {
		return summaryFields(in.Fields(), shape)
	}
	return &Summary{core: c, shape: shape}
}

func summaryFields(all []model.Field, shape inference.SummaryShape) []model.Field {
	keep := map[string]bool{model.FieldText: true}
	if shape == inference.ShapeLines {
		keep[model.FieldNumLines] = true
	} else {
		keep[model.FieldMaxLength] = true
		keep[model.FieldMinLength] = true
		keep[model.FieldNumSentences] = true
	}

	fields := make([]model.Field, 0, len(keep))
	for _, f := range all {
		if keep[f.Name] {
			fields = append(fields, f)
		}
	}
	return fields
}

func (s *Summary) Shape() inference.SummaryShape { return s.shape }

func (s *Summary) Text() string      { return s.snapshot().Text() }
func (s *Summary) MaxLength() int    { return s.snapshot().MaxLength() }
func (s *Summary) MinLength() int    { return s.snapshot().MinLength() }
func (s *Summary) NumSentences() int { return s.snapshot().NumSentences() }
func (s *Summary) NumLines() int     { return s.snapshot().NumLines() }

func (s *Summary) SetText(text string) {
	s.update(func(in *model.SummaryInput) { in.SetText(text) })
}

func (s *Summary) SetMaxLength(n int) {
	s.update(func(in *model.SummaryInput) { in.SetMaxLength(n) })
}

func (s *Summary) SetMinLength(n int) {
	s.update(func(in *model.SummaryInput) { in.SetMinLength(n) })
}

func (s *Summary) SetNumSentences(n int) {
	s.update(func(in *model.SummaryInput) { in.SetNumSentences(n) })
}

func (s *Summary) SetNumLines(n int) {
	s.update(func(in *model.SummaryInput) { in.SetNumLines(n) })
}
