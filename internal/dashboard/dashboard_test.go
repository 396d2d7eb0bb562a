package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/llm"
	"github.com/kepler-college/campusbot/internal/session"
)

type stubProvider struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return "openai" }

func (s *stubProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.reply, Model: "gpt-3.5-turbo"}, nil
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type testEnv struct {
	server   *httptest.Server
	client   *http.Client
	provider *stubProvider
	sessions *session.Store
}

func newTestEnv(t *testing.T, logoPath string) *testEnv {
	t.Helper()
	return newTestEnvWithOrigins(t, logoPath, false)
}

func newTestEnvWithOrigins(t *testing.T, logoPath string, allowAllOrigins bool) *testEnv {
	t.Helper()
	p := &stubProvider{reply: "Visiting hours are **9am-5pm**."}
	bot := chat.NewBot(p, "gpt-3.5-turbo", "Q: What are visiting hours?\nA: 9am-5pm")
	sessions := session.NewStore(time.Hour)

	r := chi.NewRouter()
	New(bot, sessions, logoPath, allowAllOrigins).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server:   srv,
		client:   &http.Client{Jar: jar},
		provider: p,
		sessions: sessions,
	}
}

func (e *testEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *testEnv) transcript(t *testing.T) transcriptResponse {
	t.Helper()
	_, body := e.get(t, "/api/transcript")
	var tr transcriptResponse
	require.NoError(t, json.Unmarshal([]byte(body), &tr))
	return tr
}

func TestDefaultPageIsChat(t *testing.T) {
	env := newTestEnv(t, "")

	status, body := env.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Welcome to Kepler CampusBot")
	assert.Contains(t, body, "💬 Chatbot")
	assert.Contains(t, body, "ℹ️ About Me")
	assert.Contains(t, body, `action="/chat"`)
}

func TestAboutPage(t *testing.T) {
	env := newTestEnv(t, "")

	status, body := env.get(t, "/?page=about")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "About Kepler College Chatbot")
	assert.Contains(t, body, "+250789773042")
	assert.Contains(t, body, "keplercollege.ac.rw")
	assert.Contains(t, body, "admissions@keplercollege.ac.rw")
	assert.NotContains(t, body, `action="/chat"`)
}

func TestUnknownPageRendersChat(t *testing.T) {
	env := newTestEnv(t, "")

	status, body := env.get(t, "/?page=settings")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Welcome to Kepler CampusBot")
}

func TestChatSubmissionAppendsTurn(t *testing.T) {
	env := newTestEnv(t, "")

	resp, body := env.post(t, "/chat", url.Values{"question": {"What are visiting hours?"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Equal(t, "chat", resp.Request.URL.Query().Get("page"))
	assert.Contains(t, body, "What are visiting hours?")
	assert.Contains(t, body, "<strong>9am-5pm</strong>")

	tr := env.transcript(t)
	require.Len(t, tr.Messages, 2)
	assert.Equal(t, chat.RoleUser, tr.Messages[0].Role)
	assert.Equal(t, chat.RoleAssistant, tr.Messages[1].Role)
	assert.Equal(t, 1, env.provider.callCount())
}

func TestBlankSubmissionIsIgnored(t *testing.T) {
	env := newTestEnv(t, "")

	resp, _ := env.post(t, "/chat", url.Values{"question": {"   "}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, env.transcript(t).Messages)
	assert.Equal(t, 0, env.provider.callCount())
}

func TestProviderErrorShownAsAssistantMessage(t *testing.T) {
	env := newTestEnv(t, "")
	env.provider.err = errors.New("connection refused")

	_, body := env.post(t, "/chat", url.Values{"question": {"hi"}})
	assert.Contains(t, body, "Error from OpenAI: connection refused")

	env.provider.mu.Lock()
	env.provider.err = nil
	env.provider.mu.Unlock()

	env.post(t, "/chat", url.Values{"question": {"hi again"}})
	assert.Len(t, env.transcript(t).Messages, 4)
}

func TestNavigationPreservesTranscript(t *testing.T) {
	env := newTestEnv(t, "")
	env.post(t, "/chat", url.Values{"question": {"What are visiting hours?"}})

	resp, body := env.post(t, "/nav", url.Values{"page": {"about"}})
	assert.Equal(t, "about", resp.Request.URL.Query().Get("page"))
	assert.Contains(t, body, "About Kepler College Chatbot")

	tr := env.transcript(t)
	assert.Equal(t, session.PageAbout, tr.Page)
	assert.Len(t, tr.Messages, 2)

	resp, body = env.post(t, "/nav", url.Values{"page": {"chat"}})
	assert.Equal(t, "chat", resp.Request.URL.Query().Get("page"))
	assert.Contains(t, body, "What are visiting hours?")
	assert.Len(t, env.transcript(t).Messages, 2)
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, "")
	env.post(t, "/chat", url.Values{"question": {"first browser"}})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	other := &testEnv{server: env.server, client: &http.Client{Jar: jar}}
	other.get(t, "/")

	assert.Empty(t, other.transcript(t).Messages)
	assert.Len(t, env.transcript(t).Messages, 2)
	assert.Equal(t, 2, env.sessions.Count())
}

func TestTranscriptWithoutSession(t *testing.T) {
	env := newTestEnv(t, "")

	tr := env.transcript(t)
	assert.Empty(t, tr.SessionID)
	assert.Equal(t, session.PageChat, tr.Page)
	assert.NotNil(t, tr.Messages)
}

func TestRawHTMLIsNotRendered(t *testing.T) {
	env := newTestEnv(t, "")

	_, body := env.post(t, "/chat", url.Values{"question": {"<script>alert(1)</script>"}})
	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func TestLogo(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "kepler-logo.png")
	require.NoError(t, os.WriteFile(logo, []byte("\x89PNG\r\n\x1a\n"), 0o644))

	env := newTestEnv(t, logo)
	status, _ := env.get(t, "/static/logo")
	assert.Equal(t, http.StatusOK, status)

	_, body := env.get(t, "/")
	assert.Contains(t, body, `src="/static/logo"`)
}

func TestMissingLogo(t *testing.T) {
	env := newTestEnv(t, filepath.Join(t.TempDir(), "nope.png"))

	status, _ := env.get(t, "/static/logo")
	assert.Equal(t, http.StatusNotFound, status)

	_, body := env.get(t, "/")
	assert.NotContains(t, body, `src="/static/logo"`)
}

func TestWebSocketChat(t *testing.T) {
	env := newTestEnv(t, "")
	env.get(t, "/")

	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/chat"
	u, err := url.Parse(env.server.URL)
	require.NoError(t, err)
	header := http.Header{}
	for _, c := range env.client.Jar.Cookies(u) {
		header.Add("Cookie", c.String())
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(chatRequest{Type: "message", Content: "What are visiting hours?"}))
	var resp chatResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "response", resp.Type)
	assert.Equal(t, "assistant", resp.Role)
	assert.Equal(t, "Visiting hours are **9am-5pm**.", resp.Content)
	assert.Contains(t, resp.HTML, "<strong>9am-5pm</strong>")

	require.NoError(t, conn.WriteJSON(chatRequest{Type: "message", Content: "  "}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
	assert.Equal(t, "content is required", resp.Content)

	require.NoError(t, conn.WriteJSON(chatRequest{Type: "ping"}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)

	// The websocket shares the browser session's transcript.
	assert.Len(t, env.transcript(t).Messages, 2)
}

func wsURL(env *testEnv) string {
	return "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/chat"
}

func TestWebSocketRejectsCrossOrigin(t *testing.T) {
	env := newTestEnv(t, "")

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(env), header)
	if conn != nil {
		conn.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, env.provider.callCount())
}

func TestWebSocketAcceptsSameOrigin(t *testing.T) {
	env := newTestEnv(t, "")

	header := http.Header{}
	header.Set("Origin", env.server.URL)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(env), header)
	require.NoError(t, err)
	conn.Close()
}

func TestWebSocketAllowAllOrigins(t *testing.T) {
	env := newTestEnvWithOrigins(t, "", true)

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(env), header)
	require.NoError(t, err)
	conn.Close()
}
