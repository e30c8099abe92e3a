package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// listFlags are the paging flags shared by list commands.
type listFlags struct {
	page  int
	limit int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&f.limit, "limit", 10, "Items per page")
}

func (f listFlags) query() v1.ListQuery {
	return v1.ListQuery{Page: f.page, Limit: f.limit}
}

// optionalFloat returns the flag's value, or nil when it was not given.
func optionalFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}

// parseDays parses a comma separated list of weekday numbers (0 is Sunday)
// or three-letter names.
func parseDays(s string) ([]int, error) {
	names := map[string]int{"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6}
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if d, ok := names[part]; ok {
			days = append(days, d)
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, usagef("invalid day %q: use 0-6 or sun..sat", part)
		}
		days = append(days, d)
	}
	return days, nil
}

// paginationLine renders "page x of y (n items)".
func paginationLine(p v1.Pagination) string {
	return fmt.Sprintf("page %d of %d (%d items)", p.Page, max(p.TotalPages, 1), p.TotalItems)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func floatOrDash(v *float64, precision int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', precision, 64)
}

// findByID pages through a list endpoint for resources the API has no
// single-item route for.
func findByID[T any](cmd *cobra.Command, id string,
	list func(context.Context, v1.ListQuery) (v1.Page[T], error), key func(T) string) (T, error) {
	var zero T
	for page := 1; ; page++ {
		res, err := list(cmd.Context(), v1.ListQuery{Page: page, Limit: 100})
		if err != nil {
			return zero, err
		}
		for _, item := range res.Items {
			if key(item) == id {
				return item, nil
			}
		}
		if len(res.Items) == 0 || page >= res.Pagination.TotalPages {
			return zero, usagef("no entry with id %s", id)
		}
	}
}
