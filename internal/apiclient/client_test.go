package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/healthdash/internal/config"
	"github.com/fyrsmithlabs/healthdash/internal/session"
	"github.com/fyrsmithlabs/healthdash/internal/telemetry"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) (*Client, *session.MemoryStore, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	require.NoError(t, store.Save(session.Session{Token: "tok-abc", User: v1.User{ID: "u1"}}))

	cfg := config.APIConfig{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second}
	return New(cfg, store, opts...), store, &hits
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDo_AttachesHeadersAndQuery(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health-records", r.URL.Path)
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "2026-01-01", r.URL.Query().Get("startDate"))
		assert.False(t, r.URL.Query().Has("endDate"), "empty fields omitted")

		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"message":    "ok",
			"data":       []map[string]any{{"_id": "r1", "weight": 70}},
			"pagination": map[string]any{"page": 2, "limit": 10, "totalItems": 23, "totalPages": 3},
		})
	})

	var records []v1.HealthRecord
	resp, err := client.Get(context.Background(), "/health-records",
		v1.RecordQuery{ListQuery: v1.ListQuery{Page: 2, Limit: 10}, StartDate: "2026-01-01"}, &records)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "r1", records[0].ID)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 23, resp.Pagination.TotalItems)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, "ok", resp.Message)
}

func TestDo_PostsJSONBody(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in v1.AskInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "How much water?", in.Question)
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"_id": "c1", "answer": "2L"}})
	})

	var chat v1.ChatExchange
	_, err := client.Post(context.Background(), "/chatbot/ask", v1.AskInput{Question: "How much water?"}, &chat)
	require.NoError(t, err)
	assert.Equal(t, "2L", chat.Answer)
}

func TestDo_UnauthorizedTearsDownSession(t *testing.T) {
	var hookCalls atomic.Int32
	client, store, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "token expired"})
	}, WithOnUnauthorized(func(context.Context) { hookCalls.Add(1) }))

	_, err := client.Get(context.Background(), "/reminders", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, v1.ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, int32(1), hookCalls.Load())

	_, loadErr := store.Load()
	assert.ErrorIs(t, loadErr, session.ErrNoSession, "session cleared")

	_, err = client.Get(context.Background(), "/health-records", nil, nil)
	assert.ErrorIs(t, err, v1.ErrNotAuthenticated)
	assert.Equal(t, int32(1), hits.Load(), "no request after teardown")
}

func TestDo_PublicUnauthorizedSkipsExpiryHook(t *testing.T) {
	var hookCalls atomic.Int32
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid email or password"})
	}, WithOnUnauthorized(func(context.Context) { hookCalls.Add(1) }))

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   v1.LoginInput{Email: "ann@example.com", Password: "wrong"},
		Public: true,
	}, nil)
	require.ErrorIs(t, err, v1.ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", UserMessage(err))
	assert.Zero(t, hookCalls.Load(), "bad credentials are not an expired session")
}

func TestDo_ReloginRestoresAccess(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})
	require.NoError(t, store.Clear())

	_, err := client.Get(context.Background(), "/reminders", nil, nil)
	require.ErrorIs(t, err, v1.ErrNotAuthenticated)

	require.NoError(t, store.Save(session.Session{Token: "fresh"}))
	_, err = client.Get(context.Background(), "/reminders", nil, nil)
	assert.NoError(t, err)
}

func TestDo_PublicRequestWithoutSession(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	})
	require.NoError(t, store.Clear())

	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/doctors/available", Public: true}, nil)
	assert.NoError(t, err)
}

func TestDo_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        any
		wantMessage string
	}{
		{"4xx with message", http.StatusBadRequest, map[string]any{"success": false, "message": "Title is required"}, "Title is required"},
		{"403 with message", http.StatusForbidden, map[string]any{"success": false, "message": "Not your record"}, "Not your record"},
		{"4xx without message", http.StatusNotFound, map[string]any{"success": false}, GenericMessage},
		{"5xx hides message", http.StatusInternalServerError, map[string]any{"success": false, "message": "mongo exploded"}, GenericMessage},
		{"2xx with success false", http.StatusOK, map[string]any{"success": false, "message": "Nothing changed"}, "Nothing changed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.Get(context.Background(), "/reminders", nil, nil)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, UserMessage(err))

			_, loadErr := store.Load()
			assert.NoError(t, loadErr, "only 401 clears the session")
		})
	}
}

func TestDo_NonJSONServerError(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.Get(context.Background(), "/reminders", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, GenericMessage, apiErr.Message)
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, store.Save(session.Session{Token: "t"}))
	client := New(config.APIConfig{BaseURL: url, Timeout: time.Second}, store)

	_, err := client.Get(context.Background(), "/reminders", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, GenericMessage, UserMessage(err))
	assert.NotNil(t, apiErr.Unwrap())
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	defer close(release)

	_, err := client.Get(context.Background(), "/reminders", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
}

func TestDo_ContextCancelled(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/reminders", nil, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDo_RateLimited(t *testing.T) {
	client, _, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	limited := New(config.APIConfig{BaseURL: client.baseURL, RateLimit: 0.001, Burst: 1}, client.store)

	_, err := limited.Get(context.Background(), "/reminders", nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.Get(ctx, "/reminders", nil, nil)
	require.Error(t, err, "second call exceeds the limiter within the deadline")
	assert.Equal(t, int32(1), hits.Load())
}

func TestDo_Telemetry(t *testing.T) {
	tt := telemetry.NewTestTelemetry()
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, WithTelemetry(tt.Telemetry))

	_, err := client.Delete(context.Background(), "/reminders/65a1b2c3d4e5f6a7b8c9d0e1", nil)
	require.NoError(t, err)

	tt.AssertSpanExists(t, "apiclient DELETE /reminders/:id")
	tt.AssertSpanAttribute(t, "apiclient DELETE /reminders/:id", "http.status_code", int64(200))

	_, ok := tt.CollectMetric(context.Background(), "healthdash.api.requests_total")
	assert.True(t, ok)
}

func TestRouteOf(t *testing.T) {
	assert.Equal(t, "/reminders/:id/toggle", routeOf("/reminders/65a1b2c3d4e5f6a7b8c9d0e1/toggle"))
	assert.Equal(t, "/users/:id", routeOf("/users/3f2504e0-4f89-11d3-9a0c-0305e82c3301"))
	assert.Equal(t, "/chatbot/history/clear", routeOf("/chatbot/history/clear"))
	assert.Equal(t, "/doctors/:id", routeOf("/doctors/42"))
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "title is required", UserMessage(v1.ReminderInput{}.Validate()))
	assert.Contains(t, UserMessage(v1.ErrNotAuthenticated), "healthctl login")
	assert.Equal(t, SessionExpiredMessage, UserMessage(v1.ErrUnauthorized))
	assert.Contains(t, UserMessage(v1.CheckTransition(v1.StatusCompleted, v1.StatusCancelled)), "completed -> cancelled")
	assert.Equal(t, GenericMessage, UserMessage(errors.New("boom")))
}
