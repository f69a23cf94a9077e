package handler

import (
	"net/url"

	"stocklens/internal/model"
)

type ViewResponse struct {
	View          string         `json:"view"`
	Status        string         `json:"status"`
	SubmitEnabled bool           `json:"submit_enabled"`
	Input         map[string]any `json:"input"`
	Fields        []model.Field  `json:"fields,omitempty"`
	Result        any            `json:"result,omitempty"`
	Error         string         `json:"error,omitempty"`
}

type ArticleResponse struct {
	Title         string `json:"title"`
	DatePublished string `json:"date_published"`
	Summary       string `json:"summary"`
	URL           string `json:"url,omitempty"`
	Stock         string `json:"stock,omitempty"`
}

type SessionResponse struct {
	ID    string   `json:"id"`
	Views []string `json:"views"`
}

type SubmitResponse struct {
	Accepted bool         `json:"accepted"`
	View     ViewResponse `json:"view"`
}

type FieldsRequest struct {
	Fields map[string]any `json:"fields" binding:"required"`
}

// safeURL keeps only absolute http(s) links.
func safeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
