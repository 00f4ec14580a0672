package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

var (
	ErrNoCredential   = &apperr.Error{Kind: apperr.KindUnauthorized, Code: "no_credential", Message: "authentication required"}
	ErrTokenExpired   = &apperr.Error{Kind: apperr.KindUnauthorized, Code: "token_expired", Message: "token expired"}
	ErrTokenInvalid   = &apperr.Error{Kind: apperr.KindUnauthorized, Code: "token_invalid", Message: "invalid token"}
	ErrUnknownSubject = &apperr.Error{Kind: apperr.KindUnauthorized, Code: "unknown_subject", Message: "user no longer exists"}
)

// TokenManager signs and verifies the HS256 access and refresh tokens.
// The two kinds use separate secrets so one can never stand in for the other.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (m *TokenManager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccess returns a signed access token for userID and its expiry.
func (m *TokenManager) IssueAccess(userID uint) (string, time.Time, error) {
	return m.issue(userID, audienceAccess, m.accessSecret, m.accessTTL)
}

// IssueRefresh returns a signed refresh token for userID and its expiry.
func (m *TokenManager) IssueRefresh(userID uint) (string, time.Time, error) {
	return m.issue(userID, audienceRefresh, m.refreshSecret, m.refreshTTL)
}

// ParseAccess verifies an access token and returns its subject.
func (m *TokenManager) ParseAccess(token string) (uint, error) {
	return m.parse(token, audienceAccess, m.accessSecret)
}

// ParseRefresh verifies a refresh token and returns its subject.
func (m *TokenManager) ParseRefresh(token string) (uint, error) {
	return m.parse(token, audienceRefresh, m.refreshSecret)
}

func (m *TokenManager) issue(userID uint, audience string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (m *TokenManager) parse(token, audience string, secret []byte) (uint, error) {
	if token == "" {
		return 0, ErrNoCredential
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !parsed.Valid {
		return 0, ErrTokenInvalid
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}
