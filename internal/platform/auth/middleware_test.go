package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	firebaseauth "firebase.google.com/go/v4/auth"
)

type stubVerifier struct {
	token *firebaseauth.Token
	err   error
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, _ string) (*firebaseauth.Token, error) {
	return s.token, s.err
}

func okHandler(t *testing.T, captured **Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := IdentityFromContext(r.Context()); ok {
			*captured = identity
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireFirebaseAuth_MissingHeader(t *testing.T) {
	authn := NewAuthenticator(&stubVerifier{})
	var captured *Identity
	handler := authn.RequireFirebaseAuth()(okHandler(t, &captured))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if captured != nil {
		t.Fatalf("handler should not run")
	}
}

func TestRequireFirebaseAuth_InvalidToken(t *testing.T) {
	authn := NewAuthenticator(&stubVerifier{err: errors.New("expired")})
	handler := authn.RequireFirebaseAuth()(okHandler(t, new(*Identity)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireFirebaseAuth_RoleEnforced(t *testing.T) {
	verifier := &stubVerifier{token: &firebaseauth.Token{
		UID:    "user-1",
		Claims: map[string]interface{}{"role": "user", "email": "user@example.com"},
	}}
	authn := NewAuthenticator(verifier)
	handler := authn.RequireFirebaseAuth(RoleAdmin)(okHandler(t, new(*Identity)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rr.Code)
	}
}

func TestRequireFirebaseAuth_AdminAllowed(t *testing.T) {
	verifier := &stubVerifier{token: &firebaseauth.Token{
		UID:    "admin-1",
		Claims: map[string]interface{}{"role": "admin", "email": "admin@example.com"},
	}}
	authn := NewAuthenticator(verifier)

	var captured *Identity
	handler := authn.RequireFirebaseAuth(RoleAdmin)(okHandler(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if captured == nil || captured.UID != "admin-1" {
		t.Fatalf("expected identity in context, got %#v", captured)
	}
	if !captured.HasRole("ADMIN") {
		t.Fatalf("expected case-insensitive role check")
	}
	if captured.Email != "admin@example.com" {
		t.Fatalf("expected email claim, got %q", captured.Email)
	}
}

func TestRolesFromClaims_MapForm(t *testing.T) {
	roles := rolesFromClaims(map[string]interface{}{
		"role": map[string]interface{}{"admin": true, "staff": false},
	}, "role")
	if len(roles) != 1 || roles[0] != "admin" {
		t.Fatalf("expected [admin], got %#v", roles)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, ok := extractBearerToken("Basic abc"); ok {
		t.Fatalf("expected non-bearer schemes rejected")
	}
	token, ok := extractBearerToken("bearer abc123")
	if !ok || token != "abc123" {
		t.Fatalf("expected case-insensitive bearer parse, got %q %v", token, ok)
	}
}
