package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// GenericMessage is shown for network failures, timeouts and 5xx responses.
const GenericMessage = "an error occurred, please try again"

// SessionExpiredMessage is shown after a 401 tore the session down.
const SessionExpiredMessage = "your session has expired, please log in again"

// APIError is the normalized failure of one API call. Status is 0 for
// transport failures, where Err holds the cause.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("request failed: %v", e.Err)
		}
		return "request failed"
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsClientError reports whether the server rejected the request with a 4xx.
func (e *APIError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// newStatusError builds the error for a non-2xx response. 4xx responses
// keep the server message; 5xx never expose it.
func newStatusError(status int, serverMsg string) *APIError {
	e := &APIError{Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Message = serverMsg
		if e.Message == "" {
			e.Message = SessionExpiredMessage
		}
		e.Err = v1.ErrUnauthorized
	case status >= 400 && status < 500:
		e.Message = serverMsg
		if e.Message == "" {
			e.Message = GenericMessage
		}
	default:
		e.Message = GenericMessage
		if serverMsg != "" {
			e.Err = errors.New(serverMsg)
		}
	}
	return e
}

// UserMessage returns the text to show a person for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var verr *v1.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	switch {
	case errors.Is(err, v1.ErrNotAuthenticated):
		return "you are not logged in; run 'healthctl login' first"
	case errors.Is(err, v1.ErrUnauthorized):
		return SessionExpiredMessage
	case errors.Is(err, v1.ErrInvalidTransition):
		return err.Error()
	}
	return GenericMessage
}
