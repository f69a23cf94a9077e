package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Endpoint locates one backend route.
type Endpoint struct {
	BaseURL string
	Method  string
	Path    string
}

func (e Endpoint) URL() string {
	return strings.TrimRight(e.BaseURL, "/") + "/" + strings.TrimLeft(e.Path, "/")
}

func (e Endpoint) method() string {
	if e.Method == "" {
		return http.MethodPost
	}
	return strings.ToUpper(e.Method)
}

type Endpoints struct {
	Prediction Endpoint
	Sentiment  Endpoint
	Relevance  Endpoint
	Feed       Endpoint
	Summary    Endpoint
}

// DefaultEndpoints are the local development ports of the inference services.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Prediction: Endpoint{BaseURL: "http://localhost:5000", Method: http.MethodPost, Path: "/predict_movement"},
		Sentiment:  Endpoint{BaseURL: "http://localhost:5000", Method: http.MethodPost, Path: "/predict_sentiment"},
		Relevance:  Endpoint{BaseURL: "http://localhost:5000", Method: http.MethodPost, Path: "/predict_relevance"},
		Feed:       Endpoint{BaseURL: "http://127.0.0.1:5000", Method: http.MethodPost, Path: "/get_articles"},
		Summary:    Endpoint{BaseURL: "http://localhost:5001", Method: http.MethodPost, Path: "/generate_summary"},
	}
}

// Client talks to the inference services. Every call is a single attempt.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
}

// NewClient builds a client. A zero timeout waits for the service for as
// long as it takes.
func NewClient(endpoints Endpoints, timeout time.Duration) *Client {
	return &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// errorBody is the failure shape of the services. Decoding is case
// insensitive, so it also matches the "Error" key some routes use.
type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, ep Endpoint, payload any, out any) error {
	url := ep.URL()

	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: url, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, ep.method(), url, bytes.NewReader(body))
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: url, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Endpoint: url, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return &Error{
			Kind:     KindTransport,
			Endpoint: url,
			Status:   resp.StatusCode,
			Message:  eb.Error,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindParse, Endpoint: url, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func parseError(url, field, serviceText string) error {
	return &Error{
		Kind:     KindParse,
		Endpoint: url,
		Status:   http.StatusOK,
		Message:  serviceText,
		Err:      fmt.Errorf("response has no %q", field),
	}
}
