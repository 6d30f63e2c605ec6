package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/npezzotti/go-office/internal/client"
)

type ApiError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}

	return e.Message
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

func NewBadRequestError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadRequest,
		Message:    lower(http.StatusText(http.StatusBadRequest)),
	}
}

func NewNotFoundError() *ApiError {
	return &ApiError{
		StatusCode: http.StatusNotFound,
		Message:    lower(http.StatusText(http.StatusNotFound)),
	}
}

func NewInternalServerError(err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusInternalServerError,
		Message:    lower(http.StatusText(http.StatusInternalServerError)),
		Err:        err,
	}
}

// NewBadGatewayError reports a failed office backend call. message is what the
// caller is shown.
func NewBadGatewayError(message string, err error) *ApiError {
	return &ApiError{
		StatusCode: http.StatusBadGateway,
		Message:    message,
		Err:        err,
	}
}

// actionError converts a failed store action into the response for it. Client
// errors from the backend keep their status; anything else is a bad gateway.
func actionError(message string, err error) *ApiError {
	var upstream *client.ApiError
	if errors.As(err, &upstream) && upstream.StatusCode >= 400 && upstream.StatusCode < 500 {
		return &ApiError{
			StatusCode: upstream.StatusCode,
			Message:    message,
			Err:        err,
		}
	}

	return NewBadGatewayError(message, err)
}
