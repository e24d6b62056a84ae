package projections

import "clubconnect/internal/domain/account"

// SignUpDefaults pre-fills the sign-up form for a logged-in student.
type SignUpDefaults struct {
	Matricula string `json:"matricula"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Group     string `json:"group"`
}

// QuerySignUpDefaults derives form defaults from the user profile. Admins get an empty form.
func QuerySignUpDefaults(u account.User) SignUpDefaults {
	if u.Role != account.RoleStudent {
		return SignUpDefaults{}
	}
	return SignUpDefaults{
		Matricula: u.Matricula,
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		Group:     u.Group,
	}
}
