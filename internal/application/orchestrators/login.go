package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"clubconnect/internal/domain/account"
)

// UserDirectory resolves stub logins.
type UserDirectory interface {
	Match(username, role string) (account.User, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Directory UserDirectory
}

// ExecuteLogin matches a username and role against the known users.
// There is no password: this is a demo identity stub.
// PRE: none
// POST: Returns the matching user, or account.ErrInvalidCredentials
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (account.User, error) {
	username := strings.TrimSpace(input.Username)
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if username == "" || !account.IsValidRole(role) {
		slog.Info("auth_event", "event", "login_failed", "username", username, "reason", "bad_input")
		return account.User{}, account.ErrInvalidCredentials
	}

	u, err := deps.Directory.Match(username, role)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", username, "role", role)
		return account.User{}, err
	}
	slog.Info("auth_event", "event", "login_success", "user_id", u.ID, "role", u.Role)
	return u, nil
}
