// Package auth resolves credentials to identities and manages login sessions.
package auth

import (
	"context"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/gdg-garage/campus-events-api/internal/models"
)

// Identity is the authenticated caller. It never carries the password hash
// or the stored refresh token.
type Identity struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

func NewIdentity(u *models.User) *Identity {
	return &Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserFinder loads users by id.
type UserFinder interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type Authenticator struct {
	tokens *TokenManager
	users  UserFinder
}

func NewAuthenticator(tokens *TokenManager, users UserFinder) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Authenticate verifies an access token and loads its subject.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	userID, err := a.tokens.ParseAccess(token)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, err
	}
	return NewIdentity(user), nil
}
