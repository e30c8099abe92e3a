package v1

import "encoding/json"

// Envelope is the uniform wrapper around every API response.
type Envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Pagination describes one page of a collection.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// UnmarshalJSON accepts "total" as an alias for "totalItems"; the search
// endpoint uses the short form.
func (p *Pagination) UnmarshalJSON(b []byte) error {
	var raw struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		TotalItems int `json:"totalItems"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.Page = raw.Page
	p.Limit = raw.Limit
	p.TotalItems = raw.TotalItems
	if p.TotalItems == 0 {
		p.TotalItems = raw.Total
	}
	p.TotalPages = raw.TotalPages
	if p.TotalPages == 0 {
		p.TotalPages = TotalPagesFor(p.TotalItems, p.Limit)
	}
	return nil
}

// TotalPagesFor returns ceil(totalItems/limit), or 0 when limit is not positive.
func TotalPagesFor(totalItems, limit int) int {
	if limit <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + limit - 1) / limit
}

// Page is one page of a collection. Items may be empty for an out-of-range
// page number; the server decides clamping.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ListQuery is the common paging query. Zero values are omitted so the
// server applies its defaults.
type ListQuery struct {
	Page  int `url:"page,omitempty"`
	Limit int `url:"limit,omitempty"`
}
