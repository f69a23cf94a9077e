package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"stocklens/internal/controller"
	"stocklens/internal/model"
	"stocklens/internal/session"
	"stocklens/pkg/inference"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

type SessionStore interface {
	Create() *session.Session
	Get(id string) (*session.Session, error)
	Delete(id string) error
	Views() []string
}

type SessionHandler struct {
	sessions       SessionStore
	policy         *bluemonday.Policy
	allowedOrigins map[string]bool
}

func NewSessionHandler(sessions SessionStore, allowedOrigins []string) *SessionHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &SessionHandler{
		sessions:       sessions,
		policy:         bluemonday.StrictPolicy(),
		allowedOrigins: origins,
	}
}

func (h *SessionHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *SessionHandler) GetViews(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessions.Views())
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	c.JSON(http.StatusCreated, SessionResponse{ID: s.ID, Views: h.sessions.Views()})
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")

	if err := h.sessions.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) MountView(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	name := c.Param("name")
	ctrl, err := s.Mount(name)
	if err != nil {
		if errors.Is(err, controller.ErrUnknownView) {
			c.JSON(http.StatusNotFound, gin.H{"error": "View not found"})
			return
		}
		slog.Error("error mounting view", "session_id", s.ID, "view", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	slog.Info("view mounted", "session_id", s.ID, "view", name)
	c.JSON(http.StatusOK, h.toViewResponse(ctrl.View(), ctrl.Fields()))
}

func (h *SessionHandler) GetView(c *gin.Context) {
	ctrl, ok := h.activeController(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.toViewResponse(ctrl.View(), ctrl.Fields()))
}

func (h *SessionHandler) UpdateFields(c *gin.Context) {
	ctrl, ok := h.activeController(c)
	if !ok {
		return
	}

	var req FieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	values := make(map[string]string, len(req.Fields))
	for name, v := range req.Fields {
		values[name] = fieldValue(v)
	}

	if err := ctrl.SetAll(values); err != nil {
		slog.Warn("invalid field update", "view", ctrl.Name(), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.toViewResponse(ctrl.View(), ctrl.Fields()))
}

func (h *SessionHandler) Submit(c *gin.Context) {
	ctrl, ok := h.activeController(c)
	if !ok {
		return
	}

	accepted := ctrl.Submit(c.Request.Context())

	status := http.StatusAccepted
	if !accepted {
		status = http.StatusOK
	}

	c.JSON(status, SubmitResponse{
		Accepted: accepted,
		View:     h.toViewResponse(ctrl.View(), ctrl.Fields()),
	})
}

// WaitView long-polls until the active request settles or the timeout
// passes.
func (h *SessionHandler) WaitView(c *gin.Context) {
	ctrl, ok := h.activeController(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), getQueryTimeout(c))
	defer cancel()

	v, err := ctrl.Wait(ctx)
	if err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request still pending"})
		return
	}

	c.JSON(http.StatusOK, h.toViewResponse(v, ctrl.Fields()))
}

func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) activeController(c *gin.Context) (controller.Controller, bool) {
	s, ok := h.session(c)
	if !ok {
		return nil, false
	}

	ctrl, err := s.Active()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No view mounted"})
		return nil, false
	}
	return ctrl, true
}

func (h *SessionHandler) toViewResponse(v controller.View, fields []model.Field) ViewResponse {
	res := ViewResponse{
		View:          v.Controller,
		Status:        v.Status,
		SubmitEnabled: v.SubmitEnabled,
		Input:         v.Input,
		Fields:        fields,
		Result:        v.Result,
		Error:         v.Error,
	}

	if articles, ok := v.Result.([]inference.Article); ok {
		res.Result = h.toArticleResponses(articles)
	}

	return res
}

// toArticleResponses strips markup from text that came from third-party
// sites before it reaches the browser.
func (h *SessionHandler) toArticleResponses(articles []inference.Article) []ArticleResponse {
	res := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		res = append(res, ArticleResponse{
			Title:         h.policy.Sanitize(a.Title),
			DatePublished: a.DatePublished,
			Summary:       h.policy.Sanitize(a.Summary),
			URL:           safeURL(a.URL),
			Stock:         a.Stock,
		})
	}
	return res
}

func fieldValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func getQueryTimeout(c *gin.Context) time.Duration {
	const (
		defaultTimeout = 30 * time.Second
		maxTimeout     = 2 * time.Minute
	)

	raw := c.Query("timeout")
	if raw == "" {
		return defaultTimeout
	}

	timeout, err := time.ParseDuration(raw)
	if err != nil || timeout <= 0 {
		slog.Warn("invalid query parameter, using default", "param", "timeout", "value", raw, "default", defaultTimeout)
		return defaultTimeout
	}

	if timeout > maxTimeout {
		slog.Warn("query parameter exceeds max, clamping", "param", "timeout", "value", timeout, "max", maxTimeout)
		return maxTimeout
	}

	return timeout
}
