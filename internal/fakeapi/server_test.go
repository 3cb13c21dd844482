package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/jobit-client/internal/auth"
	"github.com/spec-kit/jobit-client/internal/domain"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{Secret: "test-secret", TTLMinutes: 5, BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func do(t *testing.T, s *Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func login(t *testing.T, s *Server, email string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {SeedPassword}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := do(t, s, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, resp.StatusCode, body)
	}
	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		t.Fatal(err)
	}
	return tok.AccessToken
}

func authed(method, target, token string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

type detailBody struct {
	Detail struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	} `json:"detail"`
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var d detailBody
	if err := json.Unmarshal(body, &d); err != nil {
		t.Fatalf("decode error body %s: %v", body, err)
	}
	return d.Detail.ErrorCode
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New() without secret should fail")
	}
}

func TestTokenEndpoint(t *testing.T) {
	s := newServer(t)

	t.Run("issues decodable tokens", func(t *testing.T) {
		token := login(t, s, SeedManagerEmail)
		claims, err := auth.DecodeClaims(token)
		if err != nil {
			t.Fatalf("DecodeClaims() error: %v", err)
		}
		if claims.Email != SeedManagerEmail || claims.Role != domain.RoleCompanyManager || claims.CompanyID == "" {
			t.Errorf("claims = %+v", claims)
		}
		if claims.ExpiresAt == 0 {
			t.Error("exp claim missing")
		}
	})

	t.Run("rejects wrong password with 401", func(t *testing.T) {
		form := url.Values{"username": {SeedCandidateEmail}, "password": {"wrong"}}
		req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, body := do(t, s, req)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if errorCode(t, body) != "authentication_failed" {
			t.Errorf("body = %s", body)
		}
	})
}

func TestJobsEndpoints(t *testing.T) {
	s := newServer(t)
	candidate := login(t, s, SeedCandidateEmail)
	manager := login(t, s, SeedManagerEmail)

	var jobs []domain.Job
	resp, body := do(t, s, authed(http.MethodGet, "/jobs/search?query=engineer&page=1", "", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &jobs); err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 {
		t.Fatalf("search returned %d jobs, want 2", len(jobs))
	}
	jobID := jobs[0].ID

	t.Run("missing job is 404", func(t *testing.T) {
		resp, body := do(t, s, authed(http.MethodGet, "/jobs/missing", "", nil))
		if resp.StatusCode != http.StatusNotFound || errorCode(t, body) != "job_not_found" {
			t.Errorf("status %d body %s", resp.StatusCode, body)
		}
	})

	t.Run("apply requires a token", func(t *testing.T) {
		resp, _ := do(t, s, authed(http.MethodPost, "/jobs/"+jobID+"/apply", "", nil))
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})

	t.Run("apply twice is a bad request", func(t *testing.T) {
		resp, _ := do(t, s, authed(http.MethodPost, "/jobs/"+jobID+"/apply", candidate, nil))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("first apply status = %d", resp.StatusCode)
		}
		resp, body := do(t, s, authed(http.MethodPost, "/jobs/"+jobID+"/apply", candidate, nil))
		if resp.StatusCode != http.StatusBadRequest || errorCode(t, body) != "job_already_applied" {
			t.Errorf("second apply status %d body %s", resp.StatusCode, body)
		}

		var apps []domain.JobApplication
		_, body = do(t, s, authed(http.MethodGet, "/jobs/applications/?page=1", candidate, nil))
		if err := json.Unmarshal(body, &apps); err != nil {
			t.Fatal(err)
		}
		if len(apps) != 1 || apps[0].ID != jobID || !apps[0].HasApplied {
			t.Errorf("applications = %+v", apps)
		}
	})

	t.Run("managers cannot apply", func(t *testing.T) {
		resp, body := do(t, s, authed(http.MethodPost, "/jobs/"+jobID+"/apply", manager, nil))
		if resp.StatusCode != http.StatusForbidden || errorCode(t, body) != "authorization_failed" {
			t.Errorf("status %d body %s", resp.StatusCode, body)
		}
	})

	t.Run("manager creates and deletes a job", func(t *testing.T) {
		draft := `{"job_title":"Platform engineer","skills_required":["Go"],"employment_type":"Full-time"}`
		resp, body := do(t, s, authed(http.MethodPost, "/jobs/", manager, strings.NewReader(draft)))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create status %d body %s", resp.StatusCode, body)
		}
		var created domain.Job
		if err := json.Unmarshal(body, &created); err != nil {
			t.Fatal(err)
		}
		if created.Company.Name != "Acme" {
			t.Errorf("company = %+v", created.Company)
		}

		resp, _ = do(t, s, authed(http.MethodDelete, "/jobs/"+created.ID, manager, nil))
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("delete status = %d", resp.StatusCode)
		}
		resp, _ = do(t, s, authed(http.MethodGet, "/jobs/"+created.ID, "", nil))
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("deleted job status = %d", resp.StatusCode)
		}
	})

	t.Run("related jobs exclude the job itself", func(t *testing.T) {
		var related []domain.Job
		_, body := do(t, s, authed(http.MethodGet, "/jobs/"+jobID+"/related", "", nil))
		if err := json.Unmarshal(body, &related); err != nil {
			t.Fatal(err)
		}
		for _, j := range related {
			if j.ID == jobID {
				t.Error("related jobs contain the job itself")
			}
		}
	})
}

func TestUsersEndpoints(t *testing.T) {
	s := newServer(t)

	var avail domain.EmailAvailability
	_, body := do(t, s, authed(http.MethodGet, "/users/check-email?email="+url.QueryEscape(SeedCandidateEmail), "", nil))
	if err := json.Unmarshal(body, &avail); err != nil {
		t.Fatal(err)
	}
	if avail.Available {
		t.Error("seeded email reported available")
	}

	reg := `{"first_name":"Luis","last_name":"Mora","email":"luis@jobit.dev","password":"pw"}`
	resp, _ := do(t, s, authed(http.MethodPost, "/users/candidates", "", strings.NewReader(reg)))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	resp, body = do(t, s, authed(http.MethodPost, "/users/candidates", "", strings.NewReader(reg)))
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, body) != "email_already_exists" {
		t.Errorf("duplicate register status %d body %s", resp.StatusCode, body)
	}

	token := login(t, s, SeedCandidateEmail)
	var me domain.User
	_, body = do(t, s, authed(http.MethodGet, "/users/me", token, nil))
	if err := json.Unmarshal(body, &me); err != nil {
		t.Fatal(err)
	}
	if me.Email != SeedCandidateEmail || me.Role != domain.RoleCandidate {
		t.Errorf("me = %+v", me)
	}
}
