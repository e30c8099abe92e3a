package services

import (
	"context"
	"net/http"

	"github.com/fyrsmithlabs/healthdash/internal/apiclient"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// list fetches one page of T. Endpoints that return a bare array without
// pagination yield a single page holding every item.
func list[T any](ctx context.Context, c apiclient.Doer, path string, q any) (v1.Page[T], error) {
	var items []T
	resp, err := c.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: path, Query: q}, &items)
	if err != nil {
		return v1.Page[T]{}, err
	}
	if items == nil {
		items = []T{}
	}

	page := v1.Page[T]{Items: items}
	if resp.Pagination != nil {
		page.Pagination = *resp.Pagination
	} else {
		page.Pagination = v1.Pagination{
			Page:       1,
			Limit:      len(items),
			TotalItems: len(items),
			TotalPages: v1.TotalPagesFor(len(items), len(items)),
		}
	}
	return page, nil
}

// get fetches one T.
func get[T any](ctx context.Context, c apiclient.Doer, path string, q any) (T, error) {
	var out T
	_, err := c.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: path, Query: q}, &out)
	return out, err
}

// send issues a body-carrying request and decodes the returned T.
func send[T any](ctx context.Context, c apiclient.Doer, method, path string, body any) (T, error) {
	var out T
	_, err := c.Do(ctx, apiclient.Request{Method: method, Path: path, Body: body}, &out)
	return out, err
}

// del issues a DELETE and discards any payload.
func del(ctx context.Context, c apiclient.Doer, path string) error {
	_, err := c.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: path}, nil)
	return err
}

func path(prefix, id string, suffix ...string) string {
	p := prefix + "/" + id
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
