package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stocklens/internal/controller"
	"stocklens/internal/session"
	"stocklens/pkg/inference"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/gorilla/websocket"
)

type fakeBackend struct {
	prediction string
	articles   []inference.Article
	err        error
	release    chan struct{}
}

func (f *fakeBackend) wait() {
	if f.release != nil {
		<-f.release
	}
}

func (f *fakeBackend) PredictMovement(ctx context.Context, text string) (string, error) {
	f.wait()
	return f.prediction, f.err
}

func (f *fakeBackend) GetArticles(ctx context.Context, ticker, interval string) ([]inference.Article, error) {
	f.wait()
	return f.articles, f.err
}

func (f *fakeBackend) GenerateSummary(ctx context.Context, req inference.SummaryRequest) (string, error) {
	f.wait()
	return "", f.err
}

func (f *fakeBackend) PredictSentiment(ctx context.Context, text string) (float64, error) {
	f.wait()
	return 0, f.err
}

func (f *fakeBackend) PredictRelevance(ctx context.Context, text, topic string) (float64, error) {
	f.wait()
	return 0, f.err
}

func newTestRouter(backend controller.Backend) (*gin.Engine, *session.Registry) {
	gin.SetMode(gin.TestMode)

	registry := session.NewRegistry(controller.NewFactory(backend, inference.ShapeDetailed, nil), time.Minute)
	h := NewSessionHandler(registry, []string{"http://localhost:3000"})

	r := gin.New()
	r.GET("/health", h.GetHealth)
	r.GET("/views", h.GetViews)
	r.POST("/sessions", h.CreateSession)
	r.DELETE("/sessions/:id", h.DeleteSession)
	r.PUT("/sessions/:id/view/:name", h.MountView)
	r.GET("/sessions/:id/view", h.GetView)
	r.PATCH("/sessions/:id/view/fields", h.UpdateFields)
	r.POST("/sessions/:id/view/submit", h.Submit)
	r.GET("/sessions/:id/view/wait", h.WaitView)
	r.GET("/sessions/:id/events", h.StreamEvents)
	return r, registry
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()

	w := do(r, "POST", "/sessions", "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var res SessionResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	return res.ID
}

func TestGetHealth(t *testing.T) {
	r, _ := newTestRouter(&fakeBackend{})

	w := do(r, "GET", "/health", "")

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", res["status"])
}

func TestCreateSession(t *testing.T) {
	r, registry := newTestRouter(&fakeBackend{})

	w := do(r, "POST", "/sessions", "")

	var res SessionResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"prediction", "feed", "summary", "sentiment", "relevance"}, res.Views)
	assert.Equal(t, 1, registry.Len())
}

func TestUnknownSession(t *testing.T) {
	r, _ := newTestRouter(&fakeBackend{})

	assert.Equal(t, http.StatusNotFound, do(r, "GET", "/sessions/nope/view", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, "PUT", "/sessions/nope/view/feed", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, "DELETE", "/sessions/nope", "").Code)
}

func TestMountView(t *testing.T) {
	r, _ := newTestRouter(&fakeBackend{})
	id := createSession(t, r)

	w := do(r, "PUT", "/sessions/"+id+"/view/feed", "")

	var res ViewResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "feed", res.View)
	assert.Equal(t, "idle", res.Status)
	assert.Equal(t, true, res.SubmitEnabled)
	assert.Equal(t, "1d", res.Input["selected_interval"])
	assert.Equal(t, 2, len(res.Fields))
}

func TestMountUnknownView(t *testing.T) {
	r, _ := newTestRouter(&fakeBackend{})
	id := createSession(t, r)

	w := do(r, "PUT", "/sessions/"+id+"/view/portfolio", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetViewNothingMounted(t *testing.T) {
	r, _ := newTestRouter(&fakeBackend{})
	id := createSession(t, r)

	w := do(r, "GET", "/sessions/"+id+"/view", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateFields(t *testing.T) {
	r, _ := newTestRouter(&fakeBackend{})
	id := createSession(t, r)
	do(r, "PUT", "/sessions/"+id+"/view/summary", "")

	w := do(r, "PATCH", "/sessions/"+id+"/view/fields", `{"fields":{"text":"Long article","max_length":120,"min_length":"30"}}`)

	var res ViewResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Long article", res.Input["text"])
	assert.Equal(t, float64(120), res.Input["max_length"])
	assert.Equal(t, float64(30), res.Input["min_length"])
	assert.Equal(t, "idle", res.Status)
}

func TestUpdateFieldsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not a number", body: `{"fields":{"max_length":"lots"}}`},
		{name: "unknown field", body: `{"fields":{"ticker":"ACME"}}`},
		{name: "missing fields", body: `{}`},
		{name: "not json", body: `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(&fakeBackend{})
			id := createSession(t, r)
			do(r, "PUT", "/sessions/"+id+"/view/summary", "")

			w := do(r, "PATCH", "/sessions/"+id+"/view/fields", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateFieldsInvalidLeavesInputUnchanged(t *testing.T) {
	r, _ := newTestRouter(&fakeBackend{})
	id := createSession(t, r)
	do(r, "PUT", "/sessions/"+id+"/view/summary", "")

	w := do(r, "PATCH", "/sessions/"+id+"/view/fields", `{"fields":{"max_length":120,"min_length":"lots","text":"Long article"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, "GET", "/sessions/"+id+"/view", "")
	var res ViewResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "", res.Input["text"])
	assert.Equal(t, float64(1), res.Input["max_length"])
	assert.Equal(t, float64(1), res.Input["min_length"])
}

func TestSubmitAndWait(t *testing.T) {
	backend := &fakeBackend{prediction: "up", release: make(chan struct{})}
	r, _ := newTestRouter(backend)
	id := createSession(t, r)
	do(r, "PUT", "/sessions/"+id+"/view/prediction", "")

	w := do(r, "POST", "/sessions/"+id+"/view/submit", "")
	var first SubmitResponse
	json.Unmarshal(w.Body.Bytes(), &first)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, true, first.Accepted)
	assert.Equal(t, "pending", first.View.Status)
	assert.Equal(t, false, first.View.SubmitEnabled)

	w = do(r, "POST", "/sessions/"+id+"/view/submit", "")
	var second SubmitResponse
	json.Unmarshal(w.Body.Bytes(), &second)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, second.Accepted)
	assert.Equal(t, "pending", second.View.Status)

	close(backend.release)

	w = do(r, "GET", "/sessions/"+id+"/view/wait?timeout=2s", "")
	var res ViewResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "succeeded", res.Status)
	assert.Equal(t, "up", res.Result)
}

func TestWaitTimesOut(t *testing.T) {
	backend := &fakeBackend{release: make(chan struct{})}
	defer close(backend.release)
	r, _ := newTestRouter(backend)
	id := createSession(t, r)
	do(r, "PUT", "/sessions/"+id+"/view/prediction", "")
	do(r, "POST", "/sessions/"+id+"/view/submit", "")

	w := do(r, "GET", "/sessions/"+id+"/view/wait?timeout=20ms", "")

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestFeedArticlesSanitized(t *testing.T) {
	backend := &fakeBackend{articles: []inference.Article{
		{Title: "<b>Fed</b> holds", DatePublished: "2026-02-26", Summary: "Rates <i>unchanged</i>", URL: "https://example.com/fed"},
		{Title: "Second", DatePublished: "2026-02-25", Summary: "Plain", URL: "javascript:alert(1)"},
	}}
	r, _ := newTestRouter(backend)
	id := createSession(t, r)
	do(r, "PUT", "/sessions/"+id+"/view/feed", "")
	do(r, "PATCH", "/sessions/"+id+"/view/fields", `{"fields":{"ticker":"SPY"}}`)
	do(r, "POST", "/sessions/"+id+"/view/submit", "")

	w := do(r, "GET", "/sessions/"+id+"/view/wait", "")

	var res struct {
		Status string            `json:"status"`
		Result []ArticleResponse `json:"result"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "succeeded", res.Status)
	assert.Equal(t, 2, len(res.Result))
	assert.Equal(t, "Fed holds", res.Result[0].Title)
	assert.Equal(t, "Rates unchanged", res.Result[0].Summary)
	assert.Equal(t, "https://example.com/fed", res.Result[0].URL)
	assert.Equal(t, "Second", res.Result[1].Title)
	assert.Equal(t, "", res.Result[1].URL)
}

func TestFeedServiceError(t *testing.T) {
	backend := &fakeBackend{err: &inference.Error{Kind: inference.KindService, Message: "no ticker"}}
	r, _ := newTestRouter(backend)
	id := createSession(t, r)
	do(r, "PUT", "/sessions/"+id+"/view/feed", "")
	do(r, "POST", "/sessions/"+id+"/view/submit", "")

	w := do(r, "GET", "/sessions/"+id+"/view/wait", "")

	var res ViewResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "failed", res.Status)
	assert.Equal(t, "no ticker", res.Error)
	assert.Equal(t, nil, res.Result)
	assert.Equal(t, true, res.SubmitEnabled)
}

func TestDeleteSession(t *testing.T) {
	r, registry := newTestRouter(&fakeBackend{})
	id := createSession(t, r)

	w := do(r, "DELETE", "/sessions/"+id, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, registry.Len())
}

func TestStreamEvents(t *testing.T) {
	backend := &fakeBackend{prediction: "down"}
	r, _ := newTestRouter(backend)
	srv := httptest.NewServer(r)
	defer srv.Close()

	id := createSession(t, r)
	do(r, "PUT", "/sessions/"+id+"/view/prediction", "")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.Equal(t, nil, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var v ViewResponse
	assert.Equal(t, nil, conn.ReadJSON(&v))
	assert.Equal(t, "idle", v.Status)

	do(r, "POST", "/sessions/"+id+"/view/submit", "")

	statuses := []string{}
	for len(statuses) == 0 || statuses[len(statuses)-1] != "succeeded" {
		var next ViewResponse
		if err := conn.ReadJSON(&next); err != nil {
			t.Fatalf("read event: %v", err)
		}
		statuses = append(statuses, next.Status)
	}

	for _, status := range statuses[:len(statuses)-1] {
		assert.Equal(t, "pending", status)
	}
	assert.Equal(t, "succeeded", statuses[len(statuses)-1])
}

func TestStreamEventsRejectsForeignOrigin(t *testing.T) {
	r, _ := newTestRouter(&fakeBackend{})
	srv := httptest.NewServer(r)
	defer srv.Close()
	id := createSession(t, r)

	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/events"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)

	assert.NotEqual(t, nil, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
