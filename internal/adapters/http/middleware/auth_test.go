package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clubconnect/internal/domain/account"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	ss := NewSessionStore()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return clock }

	user := account.DemoDirectory()["student123"]
	token, err := ss.Create(user)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, ok := ss.Get(token)
	if !ok || got.User.ID != user.ID {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	clock = clock.Add(SessionTTL + time.Minute)
	if _, ok := ss.Get(token); ok {
		t.Fatal("session should expire after SessionTTL")
	}

	clock = clock.Add(-SessionTTL)
	token, _ = ss.Create(user)
	ss.Delete(token)
	if _, ok := ss.Get(token); ok {
		t.Fatal("deleted session still present")
	}
}

func TestRequireRole(t *testing.T) {
	ss := NewSessionStore()
	dir := account.DemoDirectory()
	studentToken, _ := ss.Create(dir["student123"])
	adminToken, _ := ss.Create(dir["adminuser"])

	handler := Auth(ss)(RequireRole(account.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no cookie", "", http.StatusUnauthorized},
		{"unknown token", "nope", http.StatusUnauthorized},
		{"wrong role", studentToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.token})
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
