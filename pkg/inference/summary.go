package inference

import (
	"context"
	"fmt"
)

// SummaryShape selects which parameters the summary service receives.
type SummaryShape string

const (
	// ShapeDetailed sends max_length, min_length and num_sentences.
	ShapeDetailed SummaryShape = "detailed"
	// ShapeLines sends num_lines only.
	ShapeLines SummaryShape = "lines"
)

func ParseSummaryShape(s string) (SummaryShape, error) {
	switch SummaryShape(s) {
	case ShapeDetailed, ShapeLines:
		return SummaryShape(s), nil
	case "":
		return ShapeDetailed, nil
	}
	return "", fmt.Errorf("unknown summary shape %q", s)
}

type SummaryRequest struct {
	Shape        SummaryShape
	Text         string
	MaxLength    int
	MinLength    int
	NumSentences int
	NumLines     int
}

type detailedSummaryBody struct {
	Summary      string `json:"summary"`
	MaxLength    int    `json:"max_length"`
	MinLength    int    `json:"min_length"`
	NumSentences int    `json:"num_sentences"`
}

type linesSummaryBody struct {
	Summary  string `json:"summary"`
	NumLines int    `json:"num_lines"`
}

func (r SummaryRequest) body() any {
	if r.Shape == ShapeLines {
		return linesSummaryBody{Summary: r.Text, NumLines: r.NumLines}
	}
	return detailedSummaryBody{
		Summary:      r.Text,
		MaxLength:    r.MaxLength,
		MinLength:    r.MinLength,
		NumSentences: r.NumSentences,
	}
}

type summaryResponse struct {
	GeneratedSummary *string `json:"generated_summary"`
	errorBody
}

func (c *Client) GenerateSummary(ctx context.Context, req SummaryRequest) (string, error) {
	ep := c.endpoints.Summary

	var res summaryResponse
	if err := c.do(ctx, ep, req.body(), &res); err != nil {
		return "", err
	}

	if res.GeneratedSummary == nil {
		return "", parseError(ep.URL(), "generated_summary", res.Error)
	}

	return *res.GeneratedSummary, nil
}
