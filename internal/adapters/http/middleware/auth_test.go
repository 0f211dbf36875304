package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"peerpath/internal/domain/profile"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

// TestSessionStoreLifecycle tests create, get, and delete round trips.
func TestSessionStoreLifecycle(t *testing.T) {
	ss := NewSessionStore()

	token, err := ss.Create("user-1", "student@example.com", "Test User", profile.RoleStudent)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	sess, ok := ss.Get(token)
	if !ok {
		t.Fatal("expected session to be retrievable")
	}
	if sess.UserID != "user-1" || sess.Role != profile.RoleStudent {
		t.Errorf("unexpected session: %+v", sess)
	}

	ss.Delete(token)
	if _, ok := ss.Get(token); ok {
		t.Error("session should be gone after delete")
	}
}

// TestSessionStoreExpiredConcurrentGet tests that parallel lookups of the
// same expired token are safe. A browser tab left open past the session
// lifetime fires several requests carrying the expired cookie at once.
func TestSessionStoreExpiredConcurrentGet(t *testing.T) {
	ss := NewSessionStore()

	tokens := make([]string, 64)
	for i := range tokens {
		token, err := ss.Create("user-1", "student@example.com", "Test User", profile.RoleStudent)
		if err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		tokens[i] = token
	}
	ss.mu.Lock()
	for _, token := range tokens {
		s := ss.sessions[token]
		s.CreatedAt = time.Now().Add(-25 * time.Hour)
		ss.sessions[token] = s
	}
	ss.mu.Unlock()

	var wg sync.WaitGroup
	for _, token := range tokens {
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(token string) {
				defer wg.Done()
				if _, ok := ss.Get(token); ok {
					t.Error("expired session should not be returned")
				}
			}(token)
		}
	}
	wg.Wait()

	ss.mu.RLock()
	remaining := len(ss.sessions)
	ss.mu.RUnlock()
	if remaining != 0 {
		t.Errorf("expired sessions left in store: %d", remaining)
	}
}

// TestSessionStoreDeleteByUser tests that every session for a user is removed.
func TestSessionStoreDeleteByUser(t *testing.T) {
	ss := NewSessionStore()

	t1, _ := ss.Create("user-1", "a@example.com", "A", profile.RoleStudent)
	t2, _ := ss.Create("user-1", "a@example.com", "A", profile.RoleStudent)
	t3, _ := ss.Create("user-2", "b@example.com", "B", profile.RoleStudent)

	ss.DeleteByUser("user-1")

	if _, ok := ss.Get(t1); ok {
		t.Error("first session for user-1 should be gone")
	}
	if _, ok := ss.Get(t2); ok {
		t.Error("second session for user-1 should be gone")
	}
	if _, ok := ss.Get(t3); !ok {
		t.Error("user-2 session should survive")
	}
}

// TestAuthMiddleware tests cookie-to-context session injection.
func TestAuthMiddleware(t *testing.T) {
	ss := NewSessionStore()
	token, _ := ss.Create("user-1", "student@example.com", "Test User", profile.RoleStudent)

	var got Session
	var found bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = GetSessionFromContext(r.Context())
	})
	handler := Auth(ss)(inner)

	// Valid cookie
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "peerpath_session", Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !found || got.UserID != "user-1" {
		t.Errorf("expected session in context, got found=%v session=%+v", found, got)
	}

	// Unknown cookie passes through without a session
	found = false
	req = httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "peerpath_session", Value: "bogus"})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if found {
		t.Error("bogus token must not yield a session")
	}
}

// TestRequireAuth tests the login redirect for anonymous visitors.
func TestRequireAuth(t *testing.T) {
	inner, called := okHandler()
	handler := RequireAuth(inner)

	// Anonymous
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/dashboard", nil))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if location := rec.Header().Get("Location"); location != "/login" {
		t.Errorf("got redirect %q, want /login", location)
	}
	if *called {
		t.Error("handler must not run for anonymous requests")
	}

	// Authenticated
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{
		UserID: "user-1", Role: profile.RoleStudent,
	}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", rec.Code, http.StatusOK)
	}
	if !*called {
		t.Error("handler should run for authenticated requests")
	}
}

// TestRequireAdmin tests the console guard behavior for each visitor kind.
func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name         string
		role         string // empty means anonymous
		wantStatus   int
		wantRedirect string
		wantCalled   bool
	}{
		{
			name:         "anonymous goes to login",
			role:         "",
			wantStatus:   http.StatusSeeOther,
			wantRedirect: "/login",
		},
		{
			name:         "student lands back on dashboard",
			role:         profile.RoleStudent,
			wantStatus:   http.StatusSeeOther,
			wantRedirect: "/dashboard",
		},
		{
			name:       "admin passes through",
			role:       profile.RoleAdmin,
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner, called := okHandler()
			handler := RequireAdmin(inner)

			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.role != "" {
				req = req.WithContext(ContextWithSession(req.Context(), Session{
					UserID: "user-1", Role: tt.role,
				}))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantRedirect != "" {
				if location := rec.Header().Get("Location"); location != tt.wantRedirect {
					t.Errorf("got redirect %q, want %q", location, tt.wantRedirect)
				}
			}
			if *called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", *called, tt.wantCalled)
			}
		})
	}
}
