package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextArea FieldKind = "textarea"
	KindNumber   FieldKind = "number"
	KindChoice   FieldKind = "choice"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrNotNumber    = errors.New("value is not a number")
)

// Field describes one editable input for the shells. Value holds the current
// value as a string, int or Interval depending on Kind.
type Field struct {
	Name    string    `json:"name"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Options []string  `json:"options,omitempty"`
	Value   any       `json:"value"`
}

// Form is implemented by every input model.
type Form interface {
	Fields() []Field
}

// Setter is implemented by pointers to input models.
type Setter interface {
	Set(field, raw string) error
}

// Values flattens fields into a name -> value map.
func Values(fields []Field) map[string]any {
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		values[f.Name] = f.Value
	}
	return values
}

// coerceInt parses a numeric field the way a number widget would hand it
// over: blank is zero and decimals are truncated toward zero.
func coerceInt(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s %q: %w", field, raw, ErrNotNumber)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%s %q: %w", field, raw, ErrNotNumber)
	}

	return int(f), nil
}

func unknownField(field string) error {
	return fmt.Errorf("%q: %w", field, ErrUnknownField)
}
