package model

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestFeedInputDefaults(t *testing.T) {
	in := NewFeedInput()

	assert.Equal(t, "", in.Ticker())
	assert.Equal(t, IntervalDay, in.Interval())
}

func TestFeedInputForwardsUnknownInterval(t *testing.T) {
	in := NewFeedInput()

	err := in.Set(FieldInterval, "2y")

	assert.Equal(t, nil, err)
	assert.Equal(t, Interval("2y"), in.Interval())
}

func TestSummaryInputDefaults(t *testing.T) {
	in := NewSummaryInput()

	assert.Equal(t, 1, in.MaxLength())
	assert.Equal(t, 1, in.MinLength())
	assert.Equal(t, 1, in.NumSentences())
	assert.Equal(t, 5, in.NumLines())
}

func TestSummaryInputCoercion(t *testing.T) {
	tests := []struct {
		name  string
		field string
		raw   string
		want  int
	}{
		{name: "integer", field: FieldMaxLength, raw: "120", want: 120},
		{name: "surrounding spaces", field: FieldMinLength, raw: " 30 ", want: 30},
		{name: "decimal truncates", field: FieldNumSentences, raw: "3.9", want: 3},
		{name: "negative forwarded", field: FieldNumLines, raw: "-2", want: -2},
		{name: "blank is zero", field: FieldNumLines, raw: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewSummaryInput()
			err := in.Set(tt.field, tt.raw)
			assert.Equal(t, nil, err)
			assert.Equal(t, tt.want, Values(in.Fields())[tt.field])
		})
	}
}

func TestSummaryInputRejectsNonNumber(t *testing.T) {
	in := NewSummaryInput()

	err := in.Set(FieldNumLines, "five")

	assert.Equal(t, true, errors.Is(err, ErrNotNumber))
	assert.Equal(t, DefaultLines, in.NumLines())
}

func TestSetUnknownField(t *testing.T) {
	in := PredictionInput{}

	err := in.Set("ticker", "AAPL")

	assert.Equal(t, true, errors.Is(err, ErrUnknownField))
	assert.Equal(t, "", in.Text())
}

func TestRelevanceInputFields(t *testing.T) {
	in := RelevanceInput{}
	in.SetText("Chipmaker beats estimates")
	in.SetTopic("semiconductors")

	values := Values(in.Fields())

	assert.Equal(t, "Chipmaker beats estimates", values[FieldText])
	assert.Equal(t, "semiconductors", values[FieldTopic])
}
