package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/helmcode/profile-comparator/pkg/parser"
)

// Kind classifies a failed backend call.
type Kind string

const (
	KindInvalidRequest Kind = "invalid_request"
	KindServerError    Kind = "server_error"
	KindHTTPError      Kind = "http_error"
	KindNetwork        Kind = "network"
	KindStructural     Kind = "structural"
	KindGeneric        Kind = "generic"
)

// User-facing messages for failures the backend did not describe itself.
const (
	MsgNetworkError   = "Unable to connect to the server. Please check your internet connection."
	MsgInvalidRequest = "Invalid request. Please check your input."
	MsgServerError    = "Server error occurred. Please try again."
	MsgGenericError   = "An unexpected error occurred."
	MsgNoData         = "No analysis data available. Please try again."
)

// Error is the only error type the gateway returns. Message is ready to show
// to the user; Cause keeps the underlying error for logs.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// classifyStatus maps a non-2xx response to an Error. body is the raw
// response, which may carry {"error": "..."}.
func classifyStatus(status int, body []byte) *Error {
	backendMsg := backendMessage(body)
	cause := fmt.Errorf("HTTP %d: %s", status, truncate(string(body), 512))

	switch status {
	case http.StatusBadRequest:
		return &Error{Kind: KindInvalidRequest, Message: orDefault(backendMsg, MsgInvalidRequest), StatusCode: status, Cause: cause}
	case http.StatusInternalServerError:
		return &Error{Kind: KindServerError, Message: orDefault(backendMsg, MsgServerError), StatusCode: status, Cause: cause}
	default:
		return &Error{Kind: KindHTTPError, Message: fmt.Sprintf("Server returned error %d", status), StatusCode: status, Cause: cause}
	}
}

// classifyTransport maps an error returned before any response arrived.
func classifyTransport(err error) *Error {
	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr),
		errors.As(err, &urlErr):
		return &Error{Kind: KindNetwork, Message: MsgNetworkError, Cause: err}
	default:
		return &Error{Kind: KindGeneric, Message: MsgGenericError, Cause: err}
	}
}

func classifyParse(err error) *Error {
	var se *parser.StructuralError
	if errors.As(err, &se) {
		return &Error{Kind: KindStructural, Message: MsgNoData, StatusCode: http.StatusOK, Cause: err}
	}
	return &Error{Kind: KindGeneric, Message: MsgGenericError, Cause: err}
}

func backendMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
