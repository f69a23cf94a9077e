package model

const FieldText = "text"

type PredictionInput struct {
	text string
}

func (in PredictionInput) Text() string { return in.text }

func (in *PredictionInput) SetText(text string) { in.text = text }

func (in *PredictionInput) Set(field, raw string) error {
	if field != FieldText {
		return unknownField(field)
	}
	in.text = raw
	return nil
}

func (in PredictionInput) Fields() []Field {
	return []Field{
		{Name: FieldText, Label: "Article text", Kind: KindTextArea, Value: in.text},
	}
}

type SentimentInput struct {
	text string
}

func (in SentimentInput) Text() string { return in.text }

func (in *SentimentInput) SetText(text string) { in.text = text }

func (in *SentimentInput) Set(field, raw string) error {
	if field != FieldText {
		return unknownField(field)
	}
	in.text = raw
	return nil
}

func (in SentimentInput) Fields() []Field {
	return []Field{
		{Name: FieldText, Label: "Article text", Kind: KindTextArea, Value: in.text},
	}
}

const FieldTopic = "topic"

type RelevanceInput struct {
	text  string
	topic string
}

func (in RelevanceInput) Text() string  { return in.text }
func (in RelevanceInput) Topic() string { return in.topic }

func (in *RelevanceInput) SetText(text string)   { in.text = text }
func (in *RelevanceInput) SetTopic(topic string) { in.topic = topic }

func (in *RelevanceInput) Set(field, raw string) error {
	switch field {
	case FieldText:
		in.text = raw
	case FieldTopic:
		in.topic = raw
	default:
		return unknownField(field)
	}
	return nil
}

func (in RelevanceInput) Fields() []Field {
	return []Field{
		{Name: FieldText, Label: "Article text", Kind: KindTextArea, Value: in.text},
		{Name: FieldTopic, Label: "Topic", Kind: KindText, Value: in.topic},
	}
}
