package model

import (
	"context"

	"github.com/google/uuid"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type ContextKey string

const (
	StudentIDKey ContextKey = "studentID"
	IdentityKey  ContextKey = "identity"
)

// Identity is the authenticated subject supplied by the auth middleware.
type Identity struct {
	StudentID uuid.UUID
	Role      string
	Email     string
	Name      string
}

// WithIdentity stores the identity and its student ID in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if id.Role == "" {
		id.Role = RoleStudent
	}
	ctx = context.WithValue(ctx, StudentIDKey, id.StudentID)
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFromContext returns the identity set by WithIdentity. When only
// the student ID is present a student identity is synthesised.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if id, ok := ctx.Value(IdentityKey).(Identity); ok {
		return id, true
	}
	if sid, ok := ctx.Value(StudentIDKey).(uuid.UUID); ok {
		return Identity{StudentID: sid, Role: RoleStudent}, true
	}
	return Identity{}, false
}
