package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/jobit-client/internal/api/dto"
	"github.com/spec-kit/jobit-client/internal/config"
	"github.com/spec-kit/jobit-client/internal/domain"
	"github.com/spec-kit/jobit-client/internal/fakeapi"
	"github.com/spec-kit/jobit-client/internal/navigation"
	"github.com/spec-kit/jobit-client/internal/persistence"
	"github.com/spec-kit/jobit-client/internal/session"
)

func newTestApp(t *testing.T) (*App, *persistence.MemoryStore) {
	t.Helper()
	fake, err := fakeapi.New(fakeapi.Config{Secret: "shell-test", TTLMinutes: 10, BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("fakeapi.New() error: %v", err)
	}
	api := httptest.NewServer(adaptor.FiberApp(fake.App()))
	t.Cleanup(api.Close)

	cfg := &config.Config{
		App:      config.AppConfig{Name: "jobit-test", Version: "test"},
		API:      config.APIConfig{Origin: api.URL, TokenPath: "/auth/token"},
		Storage:  config.StorageConfig{Driver: "memory"},
		Session:  config.SessionConfig{EagerExpiryLogout: true},
		Messages: config.MessagesConfig{Locale: "en"},
	}
	store := persistence.NewMemoryStore()
	a, err := New(context.Background(), cfg, nil, WithStore(store))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a, store
}

func send(t *testing.T, a *App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := a.HTTP.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error: %v", req.Method, req.URL, err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func loginJSON(username, password string) *http.Request {
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/accounts/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionOf(t *testing.T, a *App) dto.SessionResponse {
	t.Helper()
	_, body := send(t, a, httptest.NewRequest(http.MethodGet, "/session", nil))
	var s dto.SessionResponse
	if err := json.Unmarshal(body, &s); err != nil {
		t.Fatalf("decode session %s: %v", body, err)
	}
	return s
}

func TestShellLoginFlow(t *testing.T) {
	a, store := newTestApp(t)

	resp, _ := send(t, a, httptest.NewRequest(http.MethodGet, "/applications?page=1", nil))
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != navigation.LoginRoute {
		t.Fatalf("anonymous /applications: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}
	if s := sessionOf(t, a); s.LoggedIn || s.ReturnURL != "/applications?page=1" {
		t.Fatalf("session before login = %+v", s)
	}

	resp, body := send(t, a, loginJSON(fakeapi.SeedCandidateEmail, fakeapi.SeedPassword))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d body %s", resp.StatusCode, body)
	}
	var nav dto.NavigationResponse
	_ = json.Unmarshal(body, &nav)
	if nav.Location != "/applications?page=1" {
		t.Errorf("post-login location = %q", nav.Location)
	}
	if _, ok, _ := store.Get(context.Background(), session.TokenKey); !ok {
		t.Error("token not persisted")
	}

	s := sessionOf(t, a)
	if !s.LoggedIn || s.Role != domain.RoleCandidate || s.Claims == nil || s.Claims.Email != fakeapi.SeedCandidateEmail {
		t.Errorf("session after login = %+v", s)
	}

	resp, body = send(t, a, httptest.NewRequest(http.MethodGet, "/applications", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/applications status %d body %s", resp.StatusCode, body)
	}

	resp, body = send(t, a, httptest.NewRequest(http.MethodPost, "/accounts/logout", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status %d body %s", resp.StatusCode, body)
	}
	_ = json.Unmarshal(body, &nav)
	if nav.Location != navigation.LoginRoute {
		t.Errorf("post-logout location = %q", nav.Location)
	}
	if _, ok, _ := store.Get(context.Background(), session.TokenKey); ok {
		t.Error("token should be removed on logout")
	}
}

func TestShellInvalidCredentials(t *testing.T) {
	a, store := newTestApp(t)

	resp, body := send(t, a, loginJSON(fakeapi.SeedCandidateEmail, "wrong"))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d body %s", resp.StatusCode, body)
	}
	var out struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if out.Error.Code != "INVALID_CREDENTIALS" || out.Error.Message != "Username or password is incorrect" {
		t.Errorf("error = %+v", out.Error)
	}
	if _, ok, _ := store.Get(context.Background(), session.TokenKey); ok {
		t.Error("token key should stay absent")
	}

	resp, _ = send(t, a, httptest.NewRequest(http.MethodPost, "/accounts/login", strings.NewReader(`{}`)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty login status = %d", resp.StatusCode)
	}
}

func TestShellJobPages(t *testing.T) {
	a, _ := newTestApp(t)

	resp, body := send(t, a, httptest.NewRequest(http.MethodGet, "/jobs?query=engineer&page=1", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/jobs status %d body %s", resp.StatusCode, body)
	}
	var page dto.JobPage
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 || page.Query != "engineer" {
		t.Fatalf("page = %+v", page)
	}

	resp, body = send(t, a, httptest.NewRequest(http.MethodGet, "/jobs/"+page.Items[0].ID, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/jobs/:id status %d body %s", resp.StatusCode, body)
	}

	resp, _ = send(t, a, httptest.NewRequest(http.MethodGet, "/jobs/does-not-exist", nil))
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != navigation.NotFoundRoute {
		t.Errorf("missing job: status %d location %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, _ = send(t, a, httptest.NewRequest(http.MethodGet, navigation.NotFoundRoute, nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("not-found view status = %d", resp.StatusCode)
	}

	started, finished, failed := a.Progress.Counts()
	if started != finished+failed || a.Progress.Active() != 0 {
		t.Errorf("progress counts %d/%d/%d active %d", started, finished, failed, a.Progress.Active())
	}
}

func TestShellRepeatedApplyNotice(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()

	if err := a.Session.Login(ctx, fakeapi.SeedCandidateEmail, fakeapi.SeedPassword); err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	jobs, err := a.Jobs.Search(ctx, "", 1)
	if err != nil || len(jobs) == 0 {
		t.Fatalf("Search() = %v, %v", jobs, err)
	}
	if err := a.Jobs.Apply(ctx, jobs[0].ID); err != nil {
		t.Fatalf("first Apply() error: %v", err)
	}
	if err := a.Jobs.Apply(ctx, jobs[0].ID); err == nil {
		t.Fatal("second Apply() should fail")
	}

	s := sessionOf(t, a)
	if len(s.Notices) != 1 || s.Notices[0].Message != "You already applied to this job" {
		t.Errorf("notices = %+v", s.Notices)
	}
	if !s.LoggedIn {
		t.Error("a bad request must not end the session")
	}
}

func TestShellHealth(t *testing.T) {
	a, _ := newTestApp(t)

	resp, _ := send(t, a, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ready status = %d", resp.StatusCode)
	}
	resp, _ = send(t, a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
	resp, _ = send(t, a, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route status = %d", resp.StatusCode)
	}
}
