package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4096

type ApiError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Message, e.Err.Error())
	}

	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

func lower(s string) string {
	return strings.ToLower(s)
}

// newApiError builds an ApiError from a non-2xx response, preferring the
// message the server put in its body.
func newApiError(resp *http.Response) *ApiError {
	apiErr := &ApiError{
		StatusCode: resp.StatusCode,
		Message:    lower(http.StatusText(resp.StatusCode)),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}

	return apiErr
}

func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, code int) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
