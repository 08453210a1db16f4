package auth

import (
	"context"

	"github.com/pkg/errors"
)

// Headers forwarded by the gateway once the caller is authenticated.
const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

const (
	RoleUser      = "user"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

type ctxKey int

const (
	userNameKey ctxKey = iota + 1
	userRoleKey
)

func SetAuthContext(ctx context.Context, userName, role string) context.Context {
	ctx = context.WithValue(ctx, userNameKey, userName)
	return context.WithValue(ctx, userRoleKey, role)
}

func GetUserName(ctx context.Context) (string, error) {
	name, ok := ctx.Value(userNameKey).(string)
	if !ok || name == "" {
		return "", errors.New("user-name is not set")
	}
	return name, nil
}

func GetUserRole(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}

// IsStaff reports whether the caller may act on behalf of other borrowers.
func IsStaff(ctx context.Context) bool {
	switch GetUserRole(ctx) {
	case RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}
