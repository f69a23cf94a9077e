package inference

import "context"

type articleText struct {
	Text string `json:"text"`
}

type articleRequest struct {
	Article articleText `json:"article"`
}

type relevanceRequest struct {
	Article articleText `json:"article"`
	Topic   string      `json:"topic"`
}

type movementResponse struct {
	Prediction *string `json:"prediction"`
	errorBody
}

type sentimentResponse struct {
	Sentiment *float64 `json:"sentiment"`
	errorBody
}

type relevanceResponse struct {
	Prediction *float64 `json:"prediction"`
	errorBody
}

// PredictMovement returns the movement label ("up" or "down") the model
// assigns to an article.
func (c *Client) PredictMovement(ctx context.Context, text string) (string, error) {
	ep := c.endpoints.Prediction

	var res movementResponse
	if err := c.do(ctx, ep, articleRequest{Article: articleText{Text: text}}, &res); err != nil {
		return "", err
	}

	if res.Prediction == nil {
		return "", parseError(ep.URL(), "prediction", res.Error)
	}

	return *res.Prediction, nil
}

func (c *Client) PredictSentiment(ctx context.Context, text string) (float64, error) {
	ep := c.endpoints.Sentiment

	var res sentimentResponse
	if err := c.do(ctx, ep, articleRequest{Article: articleText{Text: text}}, &res); err != nil {
		return 0, err
	}

	if res.Sentiment == nil {
		return 0, parseError(ep.URL(), "sentiment", res.Error)
	}

	return *res.Sentiment, nil
}

// PredictRelevance scores an article against one topic model.
func (c *Client) PredictRelevance(ctx context.Context, text, topic string) (float64, error) {
	ep := c.endpoints.Relevance

	var res relevanceResponse
	payload := relevanceRequest{Article: articleText{Text: text}, Topic: topic}
	if err := c.do(ctx, ep, payload, &res); err != nil {
		return 0, err
	}

	if res.Prediction == nil {
		return 0, parseError(ep.URL(), "prediction", res.Error)
	}

	return *res.Prediction, nil
}
