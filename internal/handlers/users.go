package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/auth"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"github.com/gdg-garage/campus-events-api/internal/users"
	"golang.org/x/oauth2"
)

type UserHandler struct {
	sessions     *auth.SessionService
	users        *users.Repository
	tokens       *auth.TokenManager
	secureCookie bool
}

// NewUserHandler builds the account endpoints. Cookie lifetimes follow the
// token lifetimes of tokens.
func NewUserHandler(sessions *auth.SessionService, repo *users.Repository, tokens *auth.TokenManager, secureCookie bool) *UserHandler {
	return &UserHandler{
		sessions:     sessions,
		users:        repo,
		tokens:       tokens,
		secureCookie: secureCookie,
	}
}

type UserView struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func newUserView(u *models.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

type SessionView struct {
	User         UserView  `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type SessionResponse struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      Envelope[SessionView]
}

func (h *UserHandler) sessionResponse(u *models.User, pair *oauth2.Token, message string) *SessionResponse {
	return &SessionResponse{
		SetCookie: []http.Cookie{
			h.cookie(auth.AccessCookie, pair.AccessToken, h.tokens.AccessTTL()),
			h.cookie(auth.RefreshCookie, pair.RefreshToken, h.tokens.RefreshTTL()),
		},
		Body: ok(SessionView{
			User:         newUserView(u),
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			TokenType:    pair.Type(),
			ExpiresAt:    pair.Expiry,
		}, message),
	}
}

func (h *UserHandler) cookie(name, value string, ttl time.Duration) http.Cookie {
	return http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *UserHandler) expiredCookie(name string) http.Cookie {
	return http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

type SignupRequest struct {
	Body struct {
		Name     string `json:"name" doc:"Display name" required:"true"`
		Email    string `json:"email" doc:"Login email address" required:"true"`
		Password string `json:"password" doc:"At least 6 characters" required:"true"`
	}
}

func (h *UserHandler) HandleRegister(ctx context.Context, input *SignupRequest) (*SessionResponse, error) {
	user, pair, err := h.sessions.Signup(ctx, auth.SignupInput{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return h.sessionResponse(user, pair, "User created successfully"), nil
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" required:"true"`
		Password string `json:"password" required:"true"`
	}
}

func (h *UserHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*SessionResponse, error) {
	user, pair, err := h.sessions.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return h.sessionResponse(user, pair, "User logged in successfully"), nil
}

// RefreshRequest takes the refresh token from its cookie first. The body is
// optional and only read when the cookie is absent.
type RefreshRequest struct {
	Cookie string `cookie:"refreshToken" doc:"Refresh token cookie"`
	Body   *struct {
		RefreshToken string `json:"refreshToken,omitempty" doc:"Refresh token, when not sent as a cookie"`
	}
}

func (h *UserHandler) HandleRefresh(ctx context.Context, input *RefreshRequest) (*SessionResponse, error) {
	token := input.Cookie
	if token == "" && input.Body != nil {
		token = input.Body.RefreshToken
	}
	user, pair, err := h.sessions.Refresh(ctx, token)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return h.sessionResponse(user, pair, "Access token refreshed successfully"), nil
}

type LogoutResponse struct {
	SetCookie []http.Cookie `header:"Set-Cookie"`
	Body      Envelope[*Empty]
}

func (h *UserHandler) HandleLogout(ctx context.Context, input *struct{}) (*LogoutResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.sessions.Logout(ctx, id.ID); err != nil {
		return nil, httpError(ctx, err)
	}
	return &LogoutResponse{
		SetCookie: []http.Cookie{h.expiredCookie(auth.AccessCookie), h.expiredCookie(auth.RefreshCookie)},
		Body:      ok[*Empty](nil, "User logged out"),
	}, nil
}

type MeResponse struct {
	Body Envelope[UserView]
}

func (h *UserHandler) HandleMe(ctx context.Context, input *struct{}) (*MeResponse, error) {
	id, err := identity(ctx)
	if err != nil {
		return nil, err
	}
	user, err := h.users.GetByID(ctx, id.ID)
	if err != nil {
		return nil, httpError(ctx, err)
	}
	return &MeResponse{Body: ok(newUserView(user), "")}, nil
}
