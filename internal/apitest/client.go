package apitest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	"github.com/fyrsmithlabs/healthdash/internal/config"
	"github.com/fyrsmithlabs/healthdash/internal/session"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// NewClient builds an API client for baseURL backed by a memory store. When
// token is non-empty the store starts logged in as user.
func NewClient(t testing.TB, baseURL, token string, user v1.User, opts ...apiclient.Option) (*apiclient.Client, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	if token != "" {
		require.NoError(t, store.Save(session.Session{Token: token, User: user}))
	}
	cfg := config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second}
	return apiclient.New(cfg, store, opts...), store
}
