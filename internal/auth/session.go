package auth

import (
	"context"
	"strings"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"golang.org/x/oauth2"
)

const minPasswordLength = 6

// UserStore is the persistence the session service needs.
type UserStore interface {
	UserFinder
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id uint, token string) error
	RotateRefreshToken(ctx context.Context, id uint, old, next string) (bool, error)
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type SessionService struct {
	users  UserStore
	tokens *TokenManager
	hasher *PasswordHasher
}

func NewSessionService(users UserStore, tokens *TokenManager, hasher *PasswordHasher) *SessionService {
	return &SessionService{users: users, tokens: tokens, hasher: hasher}
}

// Signup creates a student account and logs it in.
func (s *SessionService) Signup(ctx context.Context, in SignupInput) (*models.User, *oauth2.Token, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || strings.TrimSpace(in.Password) == "" {
		return nil, nil, apperr.Validation("name, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, nil, apperr.Validation("invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, apperr.Internal(err, "failed to create account")
	}

	user := &models.User{Name: name, Email: email, PasswordHash: digest, Role: models.RoleStudent}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login checks the password and issues a fresh pair, replacing any previous
// refresh token. Unknown emails and wrong passwords fail the same way.
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.User, *oauth2.Token, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, nil, apperr.Validation("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, nil, err
	}
	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, nil, apperr.Unauthorized("invalid credentials")
	}

	pair, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges the current refresh token for a new pair. The presented
// token must match the stored one, so each refresh token is good for one use.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*models.User, *oauth2.Token, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, nil, ErrUnknownSubject
		}
		return nil, nil, err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, nil, apperr.Unauthorized("refresh token revoked").WithCode("token_revoked")
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	ok, err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, apperr.Unauthorized("refresh token revoked").WithCode("token_revoked")
	}
	return user, pair, nil
}

// Logout revokes the user's refresh token.
func (s *SessionService) Logout(ctx context.Context, userID uint) error {
	return s.users.SetRefreshToken(ctx, userID, "")
}

func (s *SessionService) startSession(ctx context.Context, userID uint) (*oauth2.Token, error) {
	pair, err := s.issuePair(userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, userID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *SessionService) issuePair(userID uint) (*oauth2.Token, error) {
	access, exp, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to issue token")
	}
	refresh, _, err := s.tokens.IssueRefresh(userID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to issue token")
	}
	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		Expiry:       exp,
	}, nil
}
