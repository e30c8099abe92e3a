package v1

import "strings"

// SearchQuery is a keyword search over the caller's data. Type narrows the
// search to "chats" or "records"; empty searches both.
type SearchQuery struct {
	Keyword string `url:"keyword"`
	Type    string `url:"type,omitempty"`
	Page    int    `url:"page,omitempty"`
	Limit   int    `url:"limit,omitempty"`
}

func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Keyword) == "" {
		return invalid("enter a search keyword")
	}
	switch q.Type {
	case "", "all", "chats", "records":
		return nil
	}
	return invalid("search type must be all, chats or records")
}

// SearchResults is the payload of the combined search endpoint. Unlike list
// endpoints, its pagination sits inside data.
type SearchResults struct {
	Results struct {
		Chats         []ChatExchange `json:"chats"`
		HealthRecords []HealthRecord `json:"healthRecords"`
	} `json:"results"`
	Pagination Pagination `json:"pagination"`
}
