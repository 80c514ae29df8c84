package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/coachlab/coachlab/internal/archive"
	"github.com/coachlab/coachlab/pkg/coach"
	"github.com/coachlab/coachlab/pkg/reply"
	"github.com/coachlab/coachlab/pkg/scoring"
)

const strongMessage = "I understand this is hard. What happened, and can we agree you'll call back by tomorrow? I'll check in."

type firstSource struct{}

func (firstSource) IntN(int) int { return 0 }

type downIndex struct{ *archive.MemoryIndex }

func (downIndex) Ping(context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T, arch *archive.Archive, opts RouterOptions) *httptest.Server {
	t.Helper()
	logger := zaptest.NewLogger(t)
	c := coach.New(nil, reply.NewSimulator(firstSource{}), nil, logger)
	h := NewHandler(c, arch, NewTranscriptCache(4), logger)
	srv := httptest.NewServer(NewRouter(h, opts))
	t.Cleanup(srv.Close)
	return srv
}

func newMemoryArchive(t *testing.T) *archive.Archive {
	t.Helper()
	return archive.New(archive.NewMemoryIndex(), archive.NewLocalStorage(t.TempDir()), zaptest.NewLogger(t))
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, RouterOptions{})

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestHealthIndexDown(t *testing.T) {
	arch := archive.New(downIndex{archive.NewMemoryIndex()}, archive.NewLocalStorage(t.TempDir()), nil)
	srv := newTestServer(t, arch, RouterOptions{})

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCoachStrongMessage(t *testing.T) {
	srv := newTestServer(t, newMemoryArchive(t), RouterOptions{})

	body, _ := json.Marshal(coach.Request{ScenarioID: "default", ManagerMessage: strongMessage})
	resp := postJSON(t, srv.URL+"/api/coach", string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	out := decode[coachResponse](t, resp)
	assert.Equal(t, 75, out.Feedback.Score)
	assert.Equal(t, scoring.BadgeGood, out.Feedback.Badge)
	assert.Equal(t, reply.Templates[reply.TierHigh][0]+reply.Closings[reply.TierHigh], out.CSRReply)
	require.Len(t, out.ActionPlan.Items, 1)
	assert.NotEmpty(t, out.SessionID)
}

func TestCoachEmptyBody(t *testing.T) {
	srv := newTestServer(t, nil, RouterOptions{})

	resp := postJSON(t, srv.URL+"/api/coach", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))

	var fb scoring.FeedbackResult
	require.NoError(t, json.Unmarshal(raw["feedback"], &fb))
	assert.Equal(t, 0, fb.Score)
	assert.Equal(t, scoring.BadgeNeedsWork, fb.Badge)

	assert.JSONEq(t, `[]`, mustField(t, raw["feedback"], "reasons"))
	assert.JSONEq(t, `{"items":[]}`, string(raw["actionPlan"]))
	_, hasSession := raw["sessionId"]
	assert.False(t, hasSession, "disabled archive yields no session id")
}

func mustField(t *testing.T, obj json.RawMessage, field string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(obj, &m))
	return string(m[field])
}

func TestCoachMalformedBody(t *testing.T) {
	srv := newTestServer(t, nil, RouterOptions{})

	resp := postJSON(t, srv.URL+"/api/coach", `{"managerMessage":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[map[string]string](t, resp)["error"], "invalid request body")
}

func TestCoachBodyTooLarge(t *testing.T) {
	h := NewHandler(nil, nil, nil, zaptest.NewLogger(t))

	big := `{"managerMessage":"` + strings.Repeat("a", maxBodyBytes+10) + `"}`
	rec := httptest.NewRecorder()
	h.handleCoach(rec, httptest.NewRequest(http.MethodPost, "/api/coach", strings.NewReader(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestScore(t *testing.T) {
	srv := newTestServer(t, nil, RouterOptions{})

	resp := postJSON(t, srv.URL+"/api/score", `{"managerMessage":"I understand."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fb := decode[scoring.FeedbackResult](t, resp)
	assert.Equal(t, 20, fb.Score)
	assert.Equal(t, []string{scoring.ReasonEmpathy}, fb.Reasons)
}

func TestScenarios(t *testing.T) {
	srv := newTestServer(t, nil, RouterOptions{})

	resp, err := http.Get(srv.URL + "/api/scenarios")
	require.NoError(t, err)
	defer resp.Body.Close()

	out := decode[map[string][]coach.Scenario](t, resp)
	require.Len(t, out["scenarios"], 3)
	assert.Equal(t, "default", out["scenarios"][0].ID)
}

func TestSessionsRoundTrip(t *testing.T) {
	srv := newTestServer(t, newMemoryArchive(t), RouterOptions{})

	created := decode[coachResponse](t, postJSON(t, srv.URL+"/api/coach", `{"scenarioId":"noAnswer","managerMessage":"Thanks"}`))
	postJSON(t, srv.URL+"/api/coach", `{"scenarioId":"default","managerMessage":"Thanks"}`)

	resp, err := http.Get(srv.URL + "/api/sessions?scenario=noAnswer")
	require.NoError(t, err)
	defer resp.Body.Close()
	list := decode[map[string][]archive.Record](t, resp)
	require.Len(t, list["sessions"], 1)
	assert.Equal(t, created.SessionID, list["sessions"][0].ID)

	for i := 0; i < 2; i++ { // second read is served from the cache
		resp, err := http.Get(srv.URL + "/api/sessions/" + created.SessionID)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		tr := decode[archive.Transcript](t, resp)
		assert.Equal(t, "Thanks", tr.Request.ManagerMessage)
	}
}

func TestSessionNotFound(t *testing.T) {
	srv := newTestServer(t, newMemoryArchive(t), RouterOptions{})

	resp, err := http.Get(srv.URL + "/api/sessions/6f1c1f3e-9c7a-4d8e-9b1a-0c2d3e4f5a6b")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionsBadLimit(t *testing.T) {
	srv := newTestServer(t, nil, RouterOptions{})

	resp, err := http.Get(srv.URL + "/api/sessions?limit=abc")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionsDisabledArchiveIsEmpty(t *testing.T) {
	srv := newTestServer(t, nil, RouterOptions{})

	resp, err := http.Get(srv.URL + "/api/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[map[string][]archive.Record](t, resp)["sessions"])
}

func TestAPIKeyAuth(t *testing.T) {
	srv := newTestServer(t, nil, RouterOptions{APIKey: "secret"})

	resp := postJSON(t, srv.URL+"/api/score", `{}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/score", bytes.NewBufferString(`{}`))
	req.Header.Set("X-API-Key", "secret")
	ok, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)

	health, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode, "health stays public")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil, RouterOptions{})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/coach", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestStaticSPAFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	srv := newTestServer(t, nil, RouterOptions{StaticDir: dir})

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return resp.StatusCode, buf.String()
	}

	status, body := get("/app.js")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "console.log(1)", body)

	status, body = get("/practice/noAnswer")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "app")

	status, _ = get("/api/unknown")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTranscriptCacheEviction(t *testing.T) {
	c := NewTranscriptCache(2)
	c.Put("a", &archive.Transcript{})
	c.Put("b", &archive.Transcript{})
	c.Get("a") // a is now most recent
	c.Put("c", &archive.Transcript{})

	assert.NotNil(t, c.Get("a"))
	assert.Nil(t, c.Get("b"))
	assert.NotNil(t, c.Get("c"))
	assert.Equal(t, 2, c.Len())
}
