package model

// Interval is the look-back window of a feed query. The feed service is the
// only validator, so values outside the known set are still forwarded.
type Interval string

const (
	IntervalDay         Interval = "1d"
	IntervalWeek        Interval = "1w"
	IntervalMonth       Interval = "1m"
	IntervalThreeMonths Interval = "3m"
	IntervalSixMonths   Interval = "6m"
)

var Intervals = []Interval{IntervalDay, IntervalWeek, IntervalMonth, IntervalThreeMonths, IntervalSixMonths}

const (
	FieldTicker   = "ticker"
	FieldInterval = "selected_interval"
)

type FeedInput struct {
	ticker   string
	interval Interval
}

func NewFeedInput() FeedInput {
	return FeedInput{interval: IntervalDay}
}

func (in FeedInput) Ticker() string     { return in.ticker }
func (in FeedInput) Interval() Interval { return in.interval }

func (in *FeedInput) SetTicker(ticker string)       { in.ticker = ticker }
func (in *FeedInput) SetInterval(interval Interval) { in.interval = interval }

func (in *FeedInput) Set(field, raw string) error {
	switch field {
	case FieldTicker:
		in.ticker = raw
	case FieldInterval:
		in.interval = Interval(raw)
	default:
		return unknownField(field)
	}
	return nil
}

func (in FeedInput) Fields() []Field {
	options := make([]string, len(Intervals))
	for i, iv := range Intervals {
		options[i] = string(iv)
	}

	return []Field{
		{Name: FieldTicker, Label: "Ticker", Kind: KindText, Value: in.ticker},
		{Name: FieldInterval, Label: "Interval", Kind: KindChoice, Options: options, Value: string(in.interval)},
	}
}
