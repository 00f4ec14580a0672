// Package users persists accounts.
package users

import (
	"context"
	"strings"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/gdg-garage/campus-events-api/internal/database"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"gorm.io/gorm"
)

type Repository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewRepository(db *gorm.DB, timeout time.Duration) *Repository {
	return &Repository{db: db, timeout: timeout}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	user.Email = NormalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return apperr.Conflict("email already registered")
		}
		return database.Translate(err, "user")
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, database.Translate(err, "user")
	}
	return &user, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, database.Translate(err, "user")
	}
	return &user, nil
}

// SetRefreshToken overwrites the stored refresh token. An empty token revokes
// the session.
func (r *Repository) SetRefreshToken(ctx context.Context, id uint, token string) error {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("refresh_token", token)
	if res.Error != nil {
		return database.Translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// RotateRefreshToken replaces old with next only if old is still the stored
// token. It reports false when another login or refresh got there first.
func (r *Repository) RotateRefreshToken(ctx context.Context, id uint, old, next string) (bool, error) {
	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", id, old).
		Update("refresh_token", next)
	if res.Error != nil {
		return false, database.Translate(res.Error, "user")
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("unknown role %q", role)
	}
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ctx, cancel := database.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, database.Translate(err, "user")
	}
	user.Role = role
	return user, nil
}
