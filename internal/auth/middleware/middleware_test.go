package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("test-secret")
	tok, err := a.IssueJWT("session-123", "learner")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Sub != "session-123" || claims.Role != "learner" {
		t.Errorf("claims %+v", claims)
	}

	// A token signed with a different secret is rejected.
	other := NewAuthService("other-secret")
	if _, err := other.Parse(tok); err == nil {
		t.Error("expected parse failure with wrong secret")
	}
	if _, err := a.Parse("not-a-token"); err == nil {
		t.Error("expected parse failure for garbage")
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret")
	var gotSub, gotRole string
	handler := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	}))

	// Missing header.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing bearer: status %d", rec.Code)
	}

	// Bad token.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer junk")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d", rec.Code)
	}

	// Valid token stows subject and role.
	tok, _ := a.IssueJWT("session-123", "learner")
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: status %d", rec.Code)
	}
	if gotSub != "session-123" || gotRole != "learner" {
		t.Errorf("context sub=%q role=%q", gotSub, gotRole)
	}
}

func TestRequireRole(t *testing.T) {
	ok := false
	handler := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok = true
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithRole(req.Context(), "learner"))
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || ok {
		t.Errorf("learner hit admin route: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithRole(req.Context(), "admin"))
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !ok {
		t.Errorf("admin blocked: status %d", rec.Code)
	}
}
