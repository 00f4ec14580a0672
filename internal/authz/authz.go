// Package authz decides whether a caller may perform an action.
package authz

import (
	"errors"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"github.com/gdg-garage/campus-events-api/internal/auth"
)

type Action string

const (
	ListEvents             Action = "events:list"
	ReadEvent              Action = "events:read"
	CreateEvent            Action = "events:create"
	UpdateEvent            Action = "events:update"
	DeleteEvent            Action = "events:delete"
	ViewEventStats         Action = "events:stats"
	RegisterForEvent       Action = "registrations:create"
	ListOwnRegistrations   Action = "registrations:list-own"
	CheckOwnRegistration   Action = "registrations:check-own"
	ViewEventRegistrations Action = "registrations:list-event"
	ViewProfile            Action = "users:me"
	Logout                 Action = "users:logout"
)

type requirement int

const (
	public requirement = iota
	authenticated
	admin
)

var policy = map[Action]requirement{
	ListEvents:             public,
	ReadEvent:              public,
	RegisterForEvent:       authenticated,
	ListOwnRegistrations:   authenticated,
	CheckOwnRegistration:   authenticated,
	ViewProfile:            authenticated,
	Logout:                 authenticated,
	CreateEvent:            admin,
	UpdateEvent:            admin,
	DeleteEvent:            admin,
	ViewEventStats:         admin,
	ViewEventRegistrations: admin,
}

var (
	ErrUnauthenticated = auth.ErrNoCredential
	ErrForbidden       = &apperr.Error{Kind: apperr.KindForbidden, Code: "forbidden", Message: "admin access required"}
)

// Known reports whether a is part of the policy table.
func Known(a Action) bool {
	_, ok := policy[a]
	return ok
}

// Decide allows or denies action for identity. A nil identity means no
// caller was resolved. Unknown actions are denied.
func Decide(identity *auth.Identity, action Action) error {
	req, ok := policy[action]
	if !ok {
		return apperr.Forbidden("unknown action %q", action)
	}
	switch req {
	case public:
		return nil
	case authenticated:
		if identity == nil {
			return ErrUnauthenticated
		}
		return nil
	default:
		if identity == nil {
			return ErrUnauthenticated
		}
		if !identity.IsAdmin() {
			return ErrForbidden
		}
		return nil
	}
}

// Enforce applies Decide to a resolved credential. When identity is required
// but the presented token was rejected, the credential failure is returned so
// clients can tell an expired token from a missing one.
func Enforce(c auth.Credential, action Action) error {
	err := Decide(c.Identity, action)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnauthenticated) && c.Err != nil {
		return c.Err
	}
	return err
}
