package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gdg-garage/campus-events-api/internal/database/dbtest"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"github.com/gdg-garage/campus-events-api/internal/users"
)

func TestTokenFromRequest(t *testing.T) {
	t.Run("Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "cookie"})
		if got := TokenFromRequest(req); got != "abc" {
			t.Errorf("expected header token, got %q", got)
		}
	})

	t.Run("Cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessCookie, Value: "cookie"})
		if got := TokenFromRequest(req); got != "cookie" {
			t.Errorf("expected cookie token, got %q", got)
		}
	})

	t.Run("None", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		if got := TokenFromRequest(req); got != "" {
			t.Errorf("expected no token, got %q", got)
		}
	})
}

func TestAuthenticatorMiddleware(t *testing.T) {
	repo := users.NewRepository(dbtest.Open(t), 0)
	tokens := newTestTokens()
	authn := NewAuthenticator(tokens, repo)

	user := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	valid, _, _ := tokens.IssueAccess(user.ID)
	orphan, _, _ := tokens.IssueAccess(user.ID + 100)

	serve := func(token string) Credential {
		var got Credential
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = CredentialFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		authn.Middleware(next).ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("middleware must not reject requests, got %d", rr.Code)
		}
		return got
	}

	t.Run("Valid", func(t *testing.T) {
		c := serve(valid)
		if c.Err != nil || c.Identity == nil {
			t.Fatalf("expected identity, got %+v", c)
		}
		if c.Identity.ID != user.ID || c.Identity.Role != models.RoleStudent {
			t.Errorf("unexpected identity: %+v", c.Identity)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if c := serve(""); !errors.Is(c.Err, ErrNoCredential) {
			t.Errorf("expected ErrNoCredential, got %v", c.Err)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		if c := serve("garbage"); !errors.Is(c.Err, ErrTokenInvalid) {
			t.Errorf("expected ErrTokenInvalid, got %v", c.Err)
		}
	})

	t.Run("UnknownSubject", func(t *testing.T) {
		if c := serve(orphan); !errors.Is(c.Err, ErrUnknownSubject) {
			t.Errorf("expected ErrUnknownSubject, got %v", c.Err)
		}
	})
}
