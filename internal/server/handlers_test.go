package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"power-team-radar/internal/notify"
	"power-team-radar/internal/pipeline"
	"power-team-radar/internal/subscription"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSearcher は固定の応答を返す Searcher
type stubSearcher struct {
	resp   *pipeline.SearchResponse
	err    error
	panics bool
	got    pipeline.SearchRequest
}

func (s *stubSearcher) Search(_ context.Context, req pipeline.SearchRequest) (*pipeline.SearchResponse, error) {
	if s.panics {
		panic("boom")
	}
	s.got = req
	return s.resp, s.err
}

type testEnv struct {
	router   *gin.Engine
	searcher *stubSearcher
	subs     *subscription.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	searcher := &stubSearcher{resp: &pipeline.SearchResponse{Items: []pipeline.Opportunity{
		{ID: "opp_1", Source: pipeline.SourceGoogleNews, Title: "Clinic opening", Score: 0.8},
	}}}
	subs := subscription.NewMemoryStore()
	h := NewHandler(searcher, subs, notify.NewWhatsAppStub(nil), nil)

	reg := prometheus.NewRegistry()
	pipeline.NewMetrics(reg)
	return &testEnv{router: NewRouter(h, reg), searcher: searcher, subs: subs}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestSearch_OK(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/opportunities/search",
		`{"industries":["nutrition"],"locations":["Penang"],"limit":2,"language":"zh"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp pipeline.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "opp_1", resp.Items[0].ID)

	assert.Equal(t, []string{"nutrition"}, env.searcher.got.Industries)
	assert.Equal(t, 2, env.searcher.got.Limit)
	assert.Equal(t, "zh", env.searcher.got.Language)
}

func TestSearch_EmptyBody(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPost, "/opportunities/search", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.searcher.got.Industries)
}

func TestSearch_BadJSON(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodPost, "/opportunities/search", `{"industries":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "invalid JSON body")
}

func TestSearch_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(http.MethodGet, "/opportunities/search", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", decode(t, w)["error"])
}

func TestSearch_Failure(t *testing.T) {
	env := newTestEnv(t)
	env.searcher.resp = nil
	env.searcher.err = errors.New("search: context canceled")

	w := env.do(http.MethodPost, "/opportunities/search", `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "search: context canceled", decode(t, w)["error"])
}

func TestSearch_PanicRecovered(t *testing.T) {
	env := newTestEnv(t)
	env.searcher.panics = true

	w := env.do(http.MethodPost, "/opportunities/search", `{}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", decode(t, w)["error"])
}

func TestSubscribe(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/opportunities/subscribe",
		`{"industries":["dental clinic"],"locations":["Ipoh"],"recipient":"+60123456789"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	id, _ := body["subscription_id"].(string)
	require.True(t, strings.HasPrefix(id, "sub_"))

	sub, err := env.subs.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "+60123456789", sub.Recipient)
	assert.Equal(t, []string{"Ipoh"}, sub.Request.Locations)
}

func TestSubscribe_MissingRecipient(t *testing.T) {
	env := newTestEnv(t)
	for _, body := range []string{`{"industries":["yoga"]}`, `{"industries":["yoga"],"recipient":"   "}`} {
		w := env.do(http.MethodPost, "/opportunities/subscribe", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	list, err := env.subs.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotifyWhatsApp(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/notify/whatsapp", `{"items":["opp_1","opp_2"],"recipient":"+60123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "sent", body["status"])
	assert.EqualValues(t, 2, body["count"])
	assert.Equal(t, "+60123", body["recipient"])

	w = env.do(http.MethodPost, "/notify/whatsapp", `{"items":["opp_1"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = env.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "radar_")

	w = env.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
