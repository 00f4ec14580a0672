package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/gdg-garage/campus-events-api/internal/auth"
	"github.com/gdg-garage/campus-events-api/internal/authz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	metaAction = "action"
	metaPublic = "public"
)

// Envelope wraps every successful response body.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// Empty is the data of responses that carry only a message.
type Empty struct{}

func ok[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Success: true, Data: data, Message: message}
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	status  int
	Success bool                `json:"success"`
	Data    any                 `json:"data"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Errors  []*huma.ErrorDetail `json:"errors,omitempty"`
}

func (e *ErrorEnvelope) Error() string  { return e.Message }
func (e *ErrorEnvelope) GetStatus() int { return e.status }

func init() {
	huma.NewError = newErrorEnvelope
}

// newErrorEnvelope replaces huma's problem+json errors. Request validation
// failures are reported as 400 rather than 422.
func newErrorEnvelope(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}
	e := &ErrorEnvelope{status: status, Message: msg}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ae *apperr.Error
		if errors.As(err, &ae) {
			e.Code = ae.Code
			if e.Code == "" {
				e.Code = ae.Kind.String()
			}
			continue
		}
		var d huma.ErrorDetailer
		if errors.As(err, &d) {
			e.Errors = append(e.Errors, d.ErrorDetail())
		} else {
			e.Errors = append(e.Errors, &huma.ErrorDetail{Message: err.Error()})
		}
	}
	if e.Code == "" {
		e.Code = codeForStatus(status)
	}
	return e
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return apperr.KindValidation.String()
	case http.StatusUnauthorized:
		return apperr.KindUnauthorized.String()
	case http.StatusForbidden:
		return apperr.KindForbidden.String()
	case http.StatusNotFound:
		return apperr.KindNotFound.String()
	case http.StatusConflict:
		return apperr.KindConflict.String()
	case http.StatusServiceUnavailable:
		return apperr.KindUnavailable.String()
	}
	if status >= 500 {
		return apperr.KindInternal.String()
	}
	return ""
}

// httpError converts a service error into a huma status error. Unclassified
// and internal failures are logged with the request id.
func httpError(ctx context.Context, err error) error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal(err, "internal server error")
	}
	if ae.Kind == apperr.KindInternal || ae.Kind == apperr.KindUnavailable {
		log.Printf("[%s] %v", middleware.GetReqID(ctx), err)
	}
	return huma.NewError(ae.Kind.Status(), ae.Message, ae)
}

// NewAPI mounts huma on r and installs the authorization middleware.
func NewAPI(r chi.Router) huma.API {
	config := huma.DefaultConfig("Campus Events API", "1.0.0")
	config.Info.Description = "Event catalogue, accounts and registrations for campus events."
	// Keep bodies to the envelope fields; no $schema links.
	config.CreateHooks = nil
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.AccessCookie,
		},
	}
	api := humachi.New(r, config)
	api.UseMiddleware(policyMiddleware(api))
	return api
}

// policyMiddleware enforces the action declared on each operation. An
// operation that declares neither an action nor public access is refused.
func policyMiddleware(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if public, _ := op.Metadata[metaPublic].(bool); public {
			next(ctx)
			return
		}
		action, _ := op.Metadata[metaAction].(authz.Action)
		if action == "" {
			huma.WriteErr(api, ctx, http.StatusForbidden, "operation has no access policy")
			return
		}
		if err := authz.Enforce(auth.CredentialFrom(ctx.Context()), action); err != nil {
			var ae *apperr.Error
			if errors.As(err, &ae) {
				huma.WriteErr(api, ctx, ae.Kind.Status(), ae.Message, ae)
				return
			}
			huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error")
			return
		}
		next(ctx)
	}
}

var securedBy = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

// register adds op guarded by action. It panics on an action missing from the
// policy table, the way huma panics on a malformed operation.
func register[I, O any](api huma.API, action authz.Action, op huma.Operation, handler func(context.Context, *I) (*O, error)) {
	if !authz.Known(action) {
		panic(fmt.Sprintf("operation %s: unknown action %q", op.OperationID, action))
	}
	if op.Metadata == nil {
		op.Metadata = map[string]any{}
	}
	op.Metadata[metaAction] = action
	if authz.Decide(nil, action) != nil {
		op.Security = securedBy
	}
	huma.Register(api, op, handler)
}

// registerPublic adds op without any access check.
func registerPublic[I, O any](api huma.API, op huma.Operation, handler func(context.Context, *I) (*O, error)) {
	if op.Metadata == nil {
		op.Metadata = map[string]any{}
	}
	op.Metadata[metaPublic] = true
	huma.Register(api, op, handler)
}

// identity returns the caller resolved by the auth middleware.
func identity(ctx context.Context) (*auth.Identity, error) {
	id, ok := auth.IdentityFrom(ctx)
	if !ok {
		return nil, httpError(ctx, auth.ErrNoCredential)
	}
	return id, nil
}
