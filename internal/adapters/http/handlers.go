package web

import (
	"net/http"
	"strconv"
	"time"

	"clubconnect/internal/adapters/http/middleware"
	"clubconnect/internal/application/listutil"
	"clubconnect/internal/application/orchestrators"
	"clubconnect/internal/application/projections"
)

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Session ---

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.LoginInput
	if err := strictDecode(w, r, &input); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	user, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{Directory: s.deps.Directory})
	if err != nil {
		writeError(w, r, err)
		return
	}
	token, err := s.sessions.Create(user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.SetSessionCookie(w, token, s.secure)
	writeJSON(w, http.StatusOK, user)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w, s.secure)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, sess.User)
}

// --- Clubs and sign-up ---

func (s *server) handleListClubs(w http.ResponseWriter, r *http.Request) {
	available, _ := strconv.ParseBool(r.URL.Query().Get("available"))
	clubs, err := projections.QueryListClubs(r.Context(),
		projections.ListClubsQuery{AvailableOnly: available},
		projections.ListClubsDeps{Clubs: s.deps.Store})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clubs)
}

func (s *server) handleGetClub(w http.ResponseWriter, r *http.Request) {
	c, err := projections.QueryGetClub(r.Context(), r.PathValue("id"), projections.ListClubsDeps{Clubs: s.deps.Store})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleSignUpDefaults(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, projections.QuerySignUpDefaults(sess.User))
}

func (s *server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.SignUpInput
	if err := strictDecode(w, r, &input); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	e, err := orchestrators.ExecuteEnroll(r.Context(), input, orchestrators.EnrollDeps{
		Store:    s.deps.Store,
		Locks:    s.deps.Locks,
		Notifier: s.deps.Notifier,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// --- Admin ---

func (s *server) handleCreateClub(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.ClubInput
	if err := strictDecode(w, r, &input); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	c, err := orchestrators.ExecuteCreateClub(r.Context(), input, orchestrators.CreateClubDeps{Store: s.deps.Store})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *server) handleUpdateClub(w http.ResponseWriter, r *http.Request) {
	var input orchestrators.ClubInput
	if err := strictDecode(w, r, &input); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	c, err := orchestrators.ExecuteUpdateClub(r.Context(), r.PathValue("id"), input,
		orchestrators.UpdateClubDeps{Store: s.deps.Store, Locks: s.deps.Locks})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleDeleteClub(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteClub(r.Context(), r.PathValue("id"),
		orchestrators.DeleteClubDeps{Store: s.deps.Store, Locks: s.deps.Locks})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	lp := listutil.ParseListParams(r.URL.Query(), projections.EnrollmentSortColumns, []string{"clubId"})
	res, err := projections.QueryListEnrollments(r.Context(), projections.ListEnrollmentsQuery{
		ClubID: lp.Filters["clubId"],
		Search: lp.Search,
		Sort:   lp.SortParams,
		Page:   lp.PageParams,
	}, projections.ListEnrollmentsDeps{Clubs: s.deps.Store, Enrollments: s.deps.Store})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleRemoveEnrollment(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteRemoveEnrollment(r.Context(),
		orchestrators.RemoveEnrollmentInput{EnrollmentID: r.PathValue("id")},
		orchestrators.RemoveEnrollmentDeps{Store: s.deps.Store, Locks: s.deps.Locks})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := projections.QueryDashboard(r.Context(),
		projections.DashboardDeps{Clubs: s.deps.Store, Enrollments: s.deps.Store})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handlePerf reports timings over ?window= (a Go duration, default 15m).
func (s *server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.deps.Collector == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "performance collection is disabled"})
		return
	}
	window := 15 * time.Minute
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			badRequest(w, "window must be a positive duration such as 5m")
			return
		}
		window = d
	}
	writeJSON(w, http.StatusOK, s.deps.Collector.Snapshot(time.Now().Add(-window), 10))
}
