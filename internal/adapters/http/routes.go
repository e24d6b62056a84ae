package web

import (
	"net/http"

	"clubconnect/internal/adapters/http/middleware"
	"clubconnect/internal/domain/account"
)

func (s *server) registerRoutes(mux *http.ServeMux) {
	anyone := func(h http.HandlerFunc) http.Handler { return h }
	student := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole(account.RoleStudent)(h)
	}
	signedIn := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole(account.RoleStudent, account.RoleAdmin)(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole(account.RoleAdmin)(h)
	}

	mux.Handle("GET /healthz", anyone(s.handleHealth))

	mux.Handle("POST /api/login", anyone(s.handleLogin))
	mux.Handle("POST /api/logout", anyone(s.handleLogout))
	mux.Handle("GET /api/me", signedIn(s.handleMe))

	mux.Handle("GET /api/clubs", anyone(s.handleListClubs))
	mux.Handle("GET /api/clubs/{id}", anyone(s.handleGetClub))
	mux.Handle("GET /api/signup-defaults", student(s.handleSignUpDefaults))
	mux.Handle("POST /api/enrollments", signedIn(s.handleEnroll))

	mux.Handle("POST /api/admin/clubs", admin(s.handleCreateClub))
	mux.Handle("PUT /api/admin/clubs/{id}", admin(s.handleUpdateClub))
	mux.Handle("DELETE /api/admin/clubs/{id}", admin(s.handleDeleteClub))
	mux.Handle("GET /api/admin/enrollments", admin(s.handleListEnrollments))
	mux.Handle("DELETE /api/admin/enrollments/{id}", admin(s.handleRemoveEnrollment))
	mux.Handle("GET /api/admin/dashboard", admin(s.handleDashboard))
	mux.Handle("GET /api/admin/perf", admin(s.handlePerf))
}
