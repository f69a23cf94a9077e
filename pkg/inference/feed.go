package inference

import (
	"context"
	"errors"
	"net/http"
)

type Article struct {
	Title         string `json:"title"`
	DatePublished string `json:"date_published"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
	Stock         string `json:"stock,omitempty"`
	Text          string `json:"text,omitempty"`
}

type feedRequest struct {
	Ticker           string `json:"ticker"`
	SelectedInterval string `json:"selected_interval"`
}

type feedResponse struct {
	Success  *bool     `json:"success"`
	Articles []Article `json:"articles"`
	errorBody
}

// GetArticles returns the articles the feed service found for ticker, in
// the order the service returned them.
func (c *Client) GetArticles(ctx context.Context, ticker, interval string) ([]Article, error) {
	ep := c.endpoints.Feed

	var res feedResponse
	if err := c.do(ctx, ep, feedRequest{Ticker: ticker, SelectedInterval: interval}, &res); err != nil {
		return nil, err
	}

	if res.Success == nil {
		return nil, parseError(ep.URL(), "success", res.Error)
	}

	if !*res.Success {
		return nil, &Error{
			Kind:     KindService,
			Endpoint: ep.URL(),
			Status:   http.StatusOK,
			Message:  res.Error,
			Err:      errors.New("feed service reported failure"),
		}
	}

	if res.Articles == nil {
		return []Article{}, nil
	}

	return res.Articles, nil
}
