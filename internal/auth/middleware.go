package auth

import (
	"context"
	"net/http"
	"strings"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

type contextKey string

const credentialKey contextKey = "credential"

// Credential is the outcome of resolving the request's token. Exactly one of
// Identity and Err is set.
type Credential struct {
	Identity *Identity
	Err      error
}

// Middleware resolves the caller for every request and stores the result in
// the request context. It never rejects a request; that is left to the
// authorization policy.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.Authenticate(r.Context(), TokenFromRequest(r))
		ctx := WithCredential(r.Context(), Credential{Identity: identity, Err: err})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the access token cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		const prefix = "Bearer "
		if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
			return strings.TrimSpace(h[len(prefix):])
		}
	}
	if c, err := r.Cookie(AccessCookie); err == nil {
		return c.Value
	}
	return ""
}

func WithCredential(ctx context.Context, c Credential) context.Context {
	return context.WithValue(ctx, credentialKey, c)
}

// CredentialFrom returns the credential stored by Middleware. Without one the
// request is treated as carrying no token.
func CredentialFrom(ctx context.Context) Credential {
	if c, ok := ctx.Value(credentialKey).(Credential); ok {
		return c
	}
	return Credential{Err: ErrNoCredential}
}

func IdentityFrom(ctx context.Context) (*Identity, bool) {
	c := CredentialFrom(ctx)
	return c.Identity, c.Identity != nil
}
