package v1

import (
	"fmt"
	"strings"
	"time"
)

// ChatExchange is one question/answer pair with the assistant. Only Rating
// changes after creation.
type ChatExchange struct {
	ID        string    `json:"_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Rating    *int      `json:"rating,omitempty"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AskInput is the question form.
type AskInput struct {
	Question string `json:"question"`
}

func (in AskInput) Validate() error {
	if strings.TrimSpace(in.Question) == "" {
		return invalid("question is required")
	}
	return nil
}

// RatingInput is the rate-answer body.
type RatingInput struct {
	Rating int `json:"rating"`
}

// ValidateRating checks a rating is between 1 and 5.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return invalid(fmt.Sprintf("rating must be between 1 and 5, got %d", rating))
	}
	return nil
}

// Int returns a pointer to v, for building optional fields.
func Int(v int) *int { return &v }
