package controller

import (
	"context"
	"log/slog"

	"stocklens/internal/model"
	"stocklens/pkg/inference"
)

const (
	ViewFeed = "feed"

	FeedFallback = "An error occurred while fetching data."
)

type ArticleFetcher interface {
	GetArticles(ctx context.Context, ticker, interval string) ([]inference.Article, error)
}

// Feed submits a ticker and interval and shows the returned articles in
// service order.
type Feed struct {
	*core[model.FeedInput, []inference.Article]
}

func NewFeed(backend ArticleFetcher, logger *slog.Logger) *Feed {
	call := func(ctx context.Context, in model.FeedInput) ([]inference.Article, error) {
		return backend.GetArticles(ctx, in.Ticker(), string(in.Interval()))
	}
	return &Feed{newCore(ViewFeed, FeedFallback, model.NewFeedInput(), call, logger)}
}

func (f *Feed) Ticker() string           { return f.snapshot().Ticker() }
func (f *Feed) Interval() model.Interval { return f.snapshot().Interval() }

func (f *Feed) SetTicker(ticker string) {
	f.update(func(in *model.FeedInput) { in.SetTicker(ticker) })
}

func (f *Feed) SetInterval(interval model.Interval) {
	f.update(func(in *model.FeedInput) { in.SetInterval(interval) })
}

// Articles returns the articles of the last successful request, or none.
func (f *Feed) Articles() []inference.Article {
	articles, _ := f.State().Result()
	return articles
}
