package services

import (
	"context"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// Search wraps /search.
type Search struct {
	client apiclient.Doer
}

// All searches chats and health records together.
func (s *Search) All(ctx context.Context, q v1.SearchQuery) (v1.SearchResults, error) {
	return get[v1.SearchResults](ctx, s.client, "/search", q)
}

// Chats searches chat history only.
func (s *Search) Chats(ctx context.Context, q v1.SearchQuery) (v1.Page[v1.ChatExchange], error) {
	return list[v1.ChatExchange](ctx, s.client, "/search/chats", q)
}
