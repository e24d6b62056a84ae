package account_test

import (
	"errors"
	"testing"

	"clubconnect/internal/domain/account"
)

// TestUser_Validate tests validation of User.
func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    account.User
		wantErr error
	}{
		{"valid student", account.User{Username: "s1", Role: account.RoleStudent}, nil},
		{"valid admin", account.User{Username: "a1", Role: account.RoleAdmin}, nil},
		{"blank username", account.User{Username: "  ", Role: account.RoleAdmin}, account.ErrEmptyUsername},
		{"unknown role", account.User{Username: "c1", Role: "coach"}, account.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("User.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestDirectory_Match verifies username+role matching of the stub login.
func TestDirectory_Match(t *testing.T) {
	dir := account.DemoDirectory()

	u, err := dir.Match("student123", account.RoleStudent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Matricula != "12345" {
		t.Errorf("Matricula = %q, want 12345", u.Matricula)
	}

	if _, err := dir.Match("student123", account.RoleAdmin); !errors.Is(err, account.ErrInvalidCredentials) {
		t.Errorf("role mismatch err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := dir.Match("nobody", account.RoleStudent); !errors.Is(err, account.ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

// TestUser_NameSplit verifies first/last name derivation used to pre-fill sign-up.
func TestUser_NameSplit(t *testing.T) {
	u := account.User{Name: "Juan Carlos Pérez"}
	if u.FirstName() != "Juan" {
		t.Errorf("FirstName = %q", u.FirstName())
	}
	if u.LastName() != "Carlos Pérez" {
		t.Errorf("LastName = %q", u.LastName())
	}
	single := account.User{Name: "Ana"}
	if single.LastName() != "" {
		t.Errorf("LastName = %q, want empty", single.LastName())
	}
}
