package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/leadbook/internal/config"
	"winsbygroup.com/leadbook/internal/contact"
	"winsbygroup.com/leadbook/internal/server"
)

func testConfig(t *testing.T, demo bool) *config.Config {
	t.Helper()
	return &config.Config{
		Addr:         ":0",
		DBPath:       filepath.Join(t.TempDir(), "leads.db"),
		DBPathSource: "test",
		CORSOrigins:  []string{"http://ui.example"},
		DemoMode:     demo,
	}
}

func build(t *testing.T, cfg *config.Config) *server.Server {
	t.Helper()
	srv, err := server.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { srv.DB.Close() })
	return srv
}

func TestRoutesRegistered(t *testing.T) {
	srv := build(t, testConfig(t, false))

	have := map[string]bool{}
	for _, r := range srv.Echo.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /api/users",
		"POST /api/users",
		"POST /api/users/bulk",
		"PUT /api/users/:id",
		"DELETE /api/users/:id",
		"GET /api/users/export",
		"GET /web/",
		"GET /livez",
		"GET /readyz",
		"GET /metrics",
	} {
		if !have[want] {
			t.Errorf("route %s not registered", want)
		}
	}
}

func TestHealthAndRoot(t *testing.T) {
	srv := build(t, testConfig(t, false))

	for path, code := range map[string]int{
		"/livez":   http.StatusOK,
		"/readyz":  http.StatusOK,
		"/metrics": http.StatusOK,
		"/":        http.StatusFound,
	} {
		rec := httptest.NewRecorder()
		srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != code {
			t.Errorf("%s: expected %d, got %d", path, code, rec.Code)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := build(t, testConfig(t, false))

	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id response header")
	}
}

func TestCORS(t *testing.T) {
	srv := build(t, testConfig(t, false))

	req := httptest.NewRequest(http.MethodOptions, "/api/users/1", nil)
	req.Header.Set("Origin", "http://ui.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://ui.example" {
		t.Errorf("expected allowed origin echoed, got %q", got)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut) {
		t.Errorf("expected PUT allowed, got %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected allow origin %q for foreign origin", got)
	}
}

func TestDemoDataOnlyOnNewDB(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, true)

	srv := build(t, cfg)
	n, err := contact.NewService(srv.DB).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n == 0 {
		t.Fatal("expected demo contacts on a new database")
	}
	if _, err := contact.NewService(srv.DB).Create(ctx, &contact.Contact{ContactName: "Mine", Email: "m@x.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	srv.DB.Close()

	// reopening an existing file must not seed again
	srv = build(t, cfg)
	again, err := contact.NewService(srv.DB).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if again != n+1 {
		t.Errorf("expected %d contacts after reopen, got %d", n+1, again)
	}
}

func postContact(srv *server.Server, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/web/contacts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, req)
	return rec
}

func TestWebFormsRequireCSRFToken(t *testing.T) {
	ctx := context.Background()
	srv := build(t, testConfig(t, false))
	svc := contact.NewService(srv.DB)

	form := url.Values{}
	for _, f := range contact.Fields {
		form.Set(f.Column, "x@"+f.Column)
	}

	if rec := postContact(srv, form, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("no token: expected 400, got %d", rec.Code)
	}

	// page load issues the token cookie
	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/web/", nil))
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "_csrf" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected _csrf cookie on page load")
	}
	if !strings.Contains(rec.Body.String(), `name="_csrf" value="`+cookie.Value+`"`) {
		t.Error("expected the page forms to carry the csrf token")
	}

	form.Set("_csrf", "forged")
	if rec := postContact(srv, form, cookie); rec.Code != http.StatusForbidden {
		t.Errorf("forged token: expected 403, got %d", rec.Code)
	}

	n, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected rejected posts to store nothing, got %d contacts", n)
	}

	form.Set("_csrf", cookie.Value)
	if rec := postContact(srv, form, cookie); rec.Code != http.StatusSeeOther {
		t.Fatalf("valid token: expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if n, _ := svc.Count(ctx); n != 1 {
		t.Errorf("expected 1 contact after valid post, got %d", n)
	}
}
