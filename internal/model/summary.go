package model

const (
	FieldMaxLength    = "max_length"
	FieldMinLength    = "min_length"
	FieldNumSentences = "num_sentences"
	FieldNumLines     = "num_lines"
)

const (
	DefaultSummaryLength = 1
	DefaultSentences     = 1
	DefaultLines         = 5
)

// SummaryInput carries the parameters of both summary request shapes; the
// transport picks the ones its configured shape needs.
type SummaryInput struct {
	text         string
	maxLength    int
	minLength    int
	numSentences int
	numLines     int
}

func NewSummaryInput() SummaryInput {
	return SummaryInput{
		maxLength:    DefaultSummaryLength,
		minLength:    DefaultSummaryLength,
		numSentences: DefaultSentences,
		numLines:     DefaultLines,
	}
}

func (in SummaryInput) Text() string      { return in.text }
func (in SummaryInput) MaxLength() int    { return in.maxLength }
func (in SummaryInput) MinLength() int    { return in.minLength }
func (in SummaryInput) NumSentences() int { return in.numSentences }
func (in SummaryInput) NumLines() int     { return in.numLines }

func (in *SummaryInput) SetText(text string)   { in.text = text }
func (in *SummaryInput) SetMaxLength(n int)    { in.maxLength = n }
func (in *SummaryInput) SetMinLength(n int)    { in.minLength = n }
func (in *SummaryInput) SetNumSentences(n int) { in.numSentences = n }
func (in *SummaryInput) SetNumLines(n int)     { in.numLines = n }

func (in *SummaryInput) Set(field, raw string) error {
	var target *int
	switch field {
	case FieldText:
		in.text = raw
		return nil
	case FieldMaxLength:
		target = &in.maxLength
	case FieldMinLength:
		target = &in.minLength
	case FieldNumSentences:
		target = &in.numSentences
	case FieldNumLines:
		target = &in.numLines
	default:
		return unknownField(field)
	}

	n, err := coerceInt(field, raw)
	if err != nil {
		return err
	}
	*target = n
	return nil
}

func (in SummaryInput) Fields() []Field {
	return []Field{
		{Name: FieldText, Label: "Article", Kind: KindTextArea, Value: in.text},
		{Name: FieldMaxLength, Label: "Max length for summary", Kind: KindNumber, Value: in.maxLength},
		{Name: FieldMinLength, Label: "Min length for summary", Kind: KindNumber, Value: in.minLength},
		{Name: FieldNumSentences, Label: "Number of sentences", Kind: KindNumber, Value: in.numSentences},
		{Name: FieldNumLines, Label: "Number of lines", Kind: KindNumber, Value: in.numLines},
	}
}
