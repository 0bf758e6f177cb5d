package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bnema/careshell/internal/application/usecase"
	"github.com/bnema/careshell/internal/infrastructure/metrics"
	"github.com/bnema/careshell/internal/infrastructure/persistence/memory"
	"github.com/bnema/careshell/internal/infrastructure/web"
	"github.com/bnema/careshell/internal/logging"
	"github.com/bnema/careshell/internal/ui/shell"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "careshell_client"

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

type testClient struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newTestServer(t *testing.T, store *memory.Store, origins ...string) *web.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.New()
	manager := shell.NewManager(shell.ManagerConfig{
		Store:       store,
		Resolver:    usecase.NewViewResolver(usecase.DefaultViewTable()),
		Metrics:     m,
		IdleTimeout: time.Minute,
	})
	srv, err := web.NewServer(testContext(), web.Config{
		Addr:           "127.0.0.1:0",
		CookieName:     cookieName,
		AllowedOrigins: origins,
	}, manager, m)
	require.NoError(t, err)
	return srv
}

func newClient(t *testing.T, srv *web.Server) *testClient {
	return &testClient{t: t, handler: srv.Handler()}
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == cookieName {
			c.cookie = ck
		}
	}
	return w
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *testClient) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func decodeTabs(t *testing.T, w *httptest.ResponseRecorder) web.TabsResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp web.TabsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestServer_RootRedirectsToShellAndIssuesCookie(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	client := newClient(t, srv)

	w := client.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/shell/", w.Header().Get("Location"))
	require.NotNil(t, client.cookie)
	assert.True(t, client.cookie.HttpOnly)

	first := client.cookie.Value
	client.get("/shell/")
	assert.Equal(t, first, client.cookie.Value)
}

func TestServer_OpenActivateCloseOverAPI(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	client := newClient(t, srv)

	resp := decodeTabs(t, client.postJSON("/api/tabs/open", `{"href":"/member-info","title":"회원정보"}`))
	require.Len(t, resp.Tabs, 1)
	require.NotNil(t, resp.NavigateTo)
	assert.Equal(t, "/member-info", *resp.NavigateTo)

	resp = decodeTabs(t, client.postJSON("/api/tabs/open", `{"href":"/vital-signs","title":"생체징후"}`))
	require.Len(t, resp.Tabs, 2)
	require.NotNil(t, resp.ActiveID)
	assert.Equal(t, "/vital-signs", *resp.ActiveID)

	resp = decodeTabs(t, client.do(httptest.NewRequest(http.MethodPost, "/api/tabs/activate?id=/member-info", nil)))
	assert.Equal(t, "/member-info", *resp.ActiveID)
	assert.Equal(t, "/member-info", *resp.NavigateTo)

	resp = decodeTabs(t, client.do(httptest.NewRequest(http.MethodPost, "/api/tabs/close?id=/member-info", nil)))
	require.Len(t, resp.Tabs, 1)
	assert.Equal(t, "/vital-signs", *resp.ActiveID)
	assert.Equal(t, "/vital-signs", *resp.NavigateTo)

	resp = decodeTabs(t, client.do(httptest.NewRequest(http.MethodPost, "/api/tabs/close?id=/vital-signs", nil)))
	assert.Empty(t, resp.Tabs)
	assert.Nil(t, resp.ActiveID)
	assert.Equal(t, "/", *resp.NavigateTo)

	resp = decodeTabs(t, client.get("/api/tabs"))
	assert.Empty(t, resp.Tabs)
	assert.Nil(t, resp.NavigateTo)

	assert.Contains(t, metricsBody(t, srv), `careshell_tab_operations_total{op="open"} 2`)
}

func TestServer_OpenRejectsMalformedPayload(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	client := newClient(t, srv)

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "missing title", body: `{"href":"/meals"}`},
		{name: "relative href", body: `{"href":"meals","title":"식사기록"}`},
		{name: "markup-only title", body: `{"href":"/meals","title":"<b></b>"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := client.postJSON("/api/tabs/open", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	resp := decodeTabs(t, client.get("/api/tabs"))
	assert.Empty(t, resp.Tabs)
}

func TestServer_OpenStripsMarkupFromTitle(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	client := newClient(t, srv)

	resp := decodeTabs(t, client.postJSON("/api/tabs/open", `{"href":"/meals","title":"<script>x</script>식사 & 간식"}`))
	require.Len(t, resp.Tabs, 1)
	assert.Equal(t, "식사 & 간식", resp.Tabs[0].Title)
}

func TestServer_ActivateRequiresID(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	client := newClient(t, srv)

	w := client.do(httptest.NewRequest(http.MethodPost, "/api/tabs/activate", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = client.do(httptest.NewRequest(http.MethodPost, "/api/tabs/close?id=", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ShellRendersPanes(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	client := newClient(t, srv)

	client.postJSON("/api/tabs/open", `{"href":"/member-info","title":"회원정보"}`)
	client.postJSON("/api/tabs/open", `{"href":"/reports/monthly","title":"월간보고"}`)

	w := client.get("/shell/reports/monthly")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `<title>월간보고 · careshell</title>`)
	assert.Contains(t, body, `action="/shell-actions/close"`)
	assert.Contains(t, body, `data-view="member_info"`)
	assert.Contains(t, body, `<iframe src="/reports/monthly"`)
	assert.Contains(t, body, `<section class="pane" data-tab-id="/member-info" hidden>`)
	assert.Contains(t, body, `<section class="pane" data-tab-id="/reports/monthly">`)
}

func TestServer_ShellVisitActivatesMatchingTab(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	client := newClient(t, srv)

	client.postJSON("/api/tabs/open", `{"href":"/member-info","title":"회원정보"}`)
	client.postJSON("/api/tabs/open", `{"href":"/bathing","title":"목욕기록"}`)

	w := client.get("/shell/member-info")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeTabs(t, client.get("/api/tabs"))
	assert.Equal(t, "/member-info", *resp.ActiveID)
}

func TestServer_ReloadRedirectsToRememberedTab(t *testing.T) {
	store := memory.NewStore()

	srv := newTestServer(t, store)
	client := newClient(t, srv)
	client.postJSON("/api/tabs/open", `{"href":"/member-info","title":"회원정보"}`)
	client.postJSON("/api/tabs/open", `{"href":"/vital-signs","title":"생체징후"}`)

	// A new process sharing the store sees the same client cookie.
	restarted := newTestServer(t, store)
	reloaded := newClient(t, restarted)
	reloaded.cookie = client.cookie

	w := reloaded.get("/shell/")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/shell/vital-signs", w.Header().Get("Location"))

	w = reloaded.get("/shell/vital-signs")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "회원정보")
}

func TestServer_FormActionsRedirect(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	client := newClient(t, srv)
	client.get("/shell/")

	w := client.postForm("/shell-actions/open", url.Values{"href": {"/admin/members"}, "title": {"회원관리"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/shell/admin/members", w.Header().Get("Location"))

	client.postForm("/shell-actions/open", url.Values{"href": {"/admin/staff"}, "title": {"직원관리"}})

	// Re-activating the current tab still lands back on it.
	w = client.postForm("/shell-actions/activate", url.Values{"id": {"/admin/staff"}})
	assert.Equal(t, "/shell/admin/staff", w.Header().Get("Location"))

	// Closing an inactive tab stays where the client is.
	w = client.postForm("/shell-actions/close", url.Values{"id": {"/admin/members"}})
	assert.Equal(t, "/shell/admin/staff", w.Header().Get("Location"))

	w = client.postForm("/shell-actions/close", url.Values{"id": {"/admin/staff"}})
	assert.Equal(t, "/shell/admin", w.Header().Get("Location"))

	w = client.postForm("/shell-actions/open", url.Values{"href": {"/x"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ClientsAreIsolated(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	alice := newClient(t, srv)
	bob := newClient(t, srv)

	alice.postJSON("/api/tabs/open", `{"href":"/meals","title":"식사기록"}`)
	bob.get("/shell/")

	assert.Len(t, decodeTabs(t, alice.get("/api/tabs")).Tabs, 1)
	assert.Empty(t, decodeTabs(t, bob.get("/api/tabs")).Tabs)
	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
}

func TestServer_HealthAndCORS(t *testing.T) {
	srv := newTestServer(t, memory.NewStore(), "https://care.example.org")
	client := newClient(t, srv)

	w := client.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodOptions, "/api/tabs/open", nil)
	req.Header.Set("Origin", "https://care.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = client.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://care.example.org", w.Header().Get("Access-Control-Allow-Origin"))
}

func metricsBody(t *testing.T, srv *web.Server) string {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestServer_IdleCookielessClientsAreEvicted(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())

	for range 50 {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shell/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Len(t, srv.Manager().Clients(), 50)

	evicted := srv.Manager().EvictIdle(testContext(), time.Now().Add(time.Hour))
	assert.Equal(t, 50, evicted)
	assert.Empty(t, srv.Manager().Clients())
}

func TestServer_EvictedClientKeepsTabs(t *testing.T) {
	srv := newTestServer(t, memory.NewStore())
	client := newClient(t, srv)

	w := client.postJSON("/api/tabs/open", `{"href":"/meals","title":"식사기록"}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, 1, srv.Manager().EvictIdle(testContext(), time.Now().Add(time.Hour)))

	resp := decodeTabs(t, client.get("/api/tabs"))
	require.Len(t, resp.Tabs, 1)
	assert.Equal(t, "/meals", resp.Tabs[0].Href)
}
