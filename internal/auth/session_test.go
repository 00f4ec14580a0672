package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/gdg-garage/campus-events-api/internal/database/dbtest"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"github.com/gdg-garage/campus-events-api/internal/users"
	"golang.org/x/crypto/bcrypt"
)

func newTestSessions(t *testing.T) (*SessionService, *users.Repository, *TokenManager) {
	t.Helper()
	repo := users.NewRepository(dbtest.Open(t), 0)
	tokens := newTestTokens()
	return NewSessionService(repo, tokens, NewPasswordHasher(bcrypt.MinCost)), repo, tokens
}

func TestSessionService_Signup(t *testing.T) {
	svc, repo, _ := newTestSessions(t)
	ctx := context.Background()

	user, pair, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "Alice@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user.Role != models.RoleStudent {
		t.Errorf("expected student role, got %q", user.Role)
	}
	if user.PasswordHash == "secret1" {
		t.Error("expected password to be hashed")
	}
	if pair.TokenType != "Bearer" || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Errorf("unexpected token pair: %+v", pair)
	}

	stored, _ := repo.GetByID(ctx, user.ID)
	if stored.RefreshToken != pair.RefreshToken {
		t.Error("expected refresh token to be persisted")
	}

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, _, err := svc.Signup(ctx, SignupInput{Name: "A2", Email: "alice@example.com", Password: "secret1"})
		if !apperr.IsKind(err, apperr.KindConflict) {
			t.Errorf("expected conflict, got %v", err)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		cases := []SignupInput{
			{Name: "", Email: "b@example.com", Password: "secret1"},
			{Name: "Bob", Email: "   ", Password: "secret1"},
			{Name: "Bob", Email: "b@example.com", Password: "123"},
			{Name: "Bob", Email: "not-an-email", Password: "secret1"},
		}
		for _, in := range cases {
			if _, _, err := svc.Signup(ctx, in); !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("expected validation error for %+v, got %v", in, err)
			}
		}
	})
}

func TestSessionService_Login(t *testing.T) {
	svc, _, _ := newTestSessions(t)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	t.Run("Success", func(t *testing.T) {
		user, pair, err := svc.Login(ctx, "ALICE@example.com", "secret1")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if user.Email != "alice@example.com" || pair.AccessToken == "" {
			t.Errorf("unexpected login result: %+v %+v", user, pair)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice@example.com", "wrong")
		if !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "ghost@example.com", "secret1")
		if !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})
}

func TestSessionService_Refresh(t *testing.T) {
	svc, _, _ := newTestSessions(t)
	ctx := context.Background()

	_, first, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("expected refresh token to rotate")
	}

	t.Run("ReuseRejected", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, first.RefreshToken)
		if !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Errorf("expected unauthorized for reused token, got %v", err)
		}
	})

	t.Run("SupersededByLogin", func(t *testing.T) {
		_, third, err := svc.Login(ctx, "alice@example.com", "secret1")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if _, _, err := svc.Refresh(ctx, second.RefreshToken); !apperr.IsKind(err, apperr.KindUnauthorized) {
			t.Errorf("expected unauthorized for superseded token, got %v", err)
		}
		if _, _, err := svc.Refresh(ctx, third.RefreshToken); err != nil {
			t.Errorf("expected latest token to refresh, got %v", err)
		}
	})

	t.Run("AccessTokenRejected", func(t *testing.T) {
		_, _, err := svc.Refresh(ctx, first.AccessToken)
		if !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("expected ErrTokenInvalid, got %v", err)
		}
	})
}

func TestSessionService_Logout(t *testing.T) {
	svc, repo, _ := newTestSessions(t)
	ctx := context.Background()

	user, pair, err := svc.Signup(ctx, SignupInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	stored, _ := repo.GetByID(ctx, user.ID)
	if stored.RefreshToken != "" {
		t.Error("expected refresh token to be cleared")
	}
	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized after logout, got %v", err)
	}
}
