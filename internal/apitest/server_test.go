package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func serve(t *testing.T, s *Server, method, target, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestServer_RequiresBearerToken(t *testing.T) {
	s := New(zaptest.NewLogger(t))

	rec, env := serve(t, s, http.MethodGet, "/api/health-records", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = serve(t, s, http.MethodGet, "/api/health-records", "bogus", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_PaginatesNewestFirst(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	u, token := s.AddUser("Ann", "ann@example.com", "secret1", v1.RoleUser)
	for i := 0; i < 23; i++ {
		s.Insert(KindRecords, u.ID, map[string]any{"weight": float64(60 + i)})
	}

	rec, env := serve(t, s, http.MethodGet, "/api/health-records?page=3&limit=10", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 23, env.Pagination.TotalItems)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	assert.Len(t, env.Data, 3)

	_, env = serve(t, s, http.MethodGet, "/api/health-records?page=1&limit=1", token, "")
	first := env.Data.([]any)[0].(map[string]any)
	assert.Equal(t, 82.0, first["weight"])
}

func TestServer_ScopesDocumentsToOwner(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	ann, _ := s.AddUser("Ann", "ann@example.com", "secret1", v1.RoleUser)
	_, bobToken := s.AddUser("Bob", "bob@example.com", "secret1", v1.RoleUser)
	id := s.Insert(KindReminders, ann.ID, map[string]any{"title": "pills"})

	rec, _ := serve(t, s, http.MethodGet, "/api/reminders/"+id, bobToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_AdminRoutes(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	_, userToken := s.AddUser("Ann", "ann@example.com", "secret1", v1.RoleUser)
	_, adminToken := s.AddUser("Root", "root@example.com", "secret1", v1.RoleAdmin)

	rec, _ := serve(t, s, http.MethodGet, "/api/reports/admin/stats", userToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := serve(t, s, http.MethodGet, "/api/reports/admin/stats", adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestServer_FailNextIsOneShot(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	_, token := s.AddUser("Ann", "ann@example.com", "secret1", v1.RoleUser)
	s.FailNext(http.MethodGet, "/reminders", http.StatusInternalServerError, "boom")

	rec, env := serve(t, s, http.MethodGet, "/api/reminders", token, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom", env.Message)

	rec, _ = serve(t, s, http.MethodGet, "/api/reminders", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, s.Requests())
}

func TestServer_RevokeTokens(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	_, token := s.AddUser("Ann", "ann@example.com", "secret1", v1.RoleUser)
	s.RevokeTokens()

	rec, _ := serve(t, s, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_CancelOnlyPending(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	u, token := s.AddUser("Ann", "ann@example.com", "secret1", v1.RoleUser)
	id := s.Insert(KindAppointments, u.ID, map[string]any{"status": "completed"})

	rec, env := serve(t, s, http.MethodPut, "/api/appointments/my-appointments/"+id+"/cancel", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "pending")
}

func TestServer_LoginWrongPassword(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	s.AddUser("Ann", "ann@example.com", "secret1", v1.RoleUser)

	rec, env := serve(t, s, http.MethodPost, "/api/auth/login", "", `{"email":"ann@example.com","password":"wrong12"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", env.Message)
}
