package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedEnvironment is wrapped by errors returned for operations that
// the selected product/environment pair does not expose.
var ErrUnsupportedEnvironment = errors.New("operation not supported in this environment")

// ClientBuilderErrorKind classifies a failure while assembling credentials or a client.
type ClientBuilderErrorKind int

const (
	MissingEnvironmentVariable ClientBuilderErrorKind = iota + 1
	CannotInstantiateClient
	IncompleteBuilder
)

func (k ClientBuilderErrorKind) String() string {
	switch k {
	case MissingEnvironmentVariable:
		return "missing environment variable"
	case CannotInstantiateClient:
		return "cannot instantiate client"
	case IncompleteBuilder:
		return "incomplete builder"
	default:
		return "client builder error"
	}
}

// ClientBuilderError is returned while building credentials or clients. It is
// never retried.
type ClientBuilderError struct {
	Kind ClientBuilderErrorKind
	// Detail is the variable name for MissingEnvironmentVariable and a
	// diagnostic for the other kinds.
	Detail string
	Err    error
}

func (e *ClientBuilderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *ClientBuilderError) Unwrap() error { return e.Err }

// NewMissingEnvironmentVariable reports an unset credential variable.
func NewMissingEnvironmentVariable(name string) *ClientBuilderError {
	return &ClientBuilderError{Kind: MissingEnvironmentVariable, Detail: name}
}

// NewIncompleteBuilder reports a builder that cannot produce a value yet.
func NewIncompleteBuilder(format string, args ...any) *ClientBuilderError {
	return &ClientBuilderError{Kind: IncompleteBuilder, Detail: fmt.Sprintf(format, args...)}
}

// ClientErrorKind classifies a failure of an operation issued through a client.
type ClientErrorKind int

const (
	CannotLogIn ClientErrorKind = iota + 1
	RequestError
	SerializationError
	GenericError
)

func (k ClientErrorKind) String() string {
	switch k {
	case CannotLogIn:
		return "cannot log in"
	case RequestError:
		return "request error"
	case SerializationError:
		return "serialization error"
	case GenericError:
		return "error"
	default:
		return "client error"
	}
}

// ClientError is a local failure of an operation: login, transport, encoding or decoding.
type ClientError struct {
	Kind   ClientErrorKind
	Detail string
	Err    error
}

func (e *ClientError) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
}

func (e *ClientError) Unwrap() error { return e.Err }

// NewClientError builds a ClientError of the given kind.
func NewClientError(kind ClientErrorKind, detail string, err error) *ClientError {
	return &ClientError{Kind: kind, Detail: detail, Err: err}
}

// ErrorItem is one entry of a backend validation error list.
type ErrorItem struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// BackendError is the error envelope returned by the Revolut API on a non-2xx
// response. Any subset of fields may be present.
type BackendError struct {
	Code      *string     `json:"code,omitempty"`
	ErrorCode *string     `json:"error_code,omitempty"`
	ErrorID   *string     `json:"errorId,omitempty"`
	Errors    []ErrorItem `json:"errors,omitempty"`
	ID        *string     `json:"id,omitempty"`
	Message   *string     `json:"message,omitempty"`
	Timestamp *uint64     `json:"timestamp,omitempty"`

	// StatusCode is the HTTP status of the response; it is not part of the payload.
	StatusCode int `json:"-"`
}

func (e *BackendError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "backend error (status %d)", e.StatusCode)
	code := firstNonEmpty(e.Code, e.ErrorCode)
	if code != "" {
		_, _ = fmt.Fprintf(&b, " [%s]", code)
	}
	if e.Message != nil && *e.Message != "" {
		b.WriteString(": ")
		b.WriteString(*e.Message)
	}
	for _, item := range e.Errors {
		_, _ = fmt.Fprintf(&b, "; %s: %s", item.ErrorCode, item.Message)
	}
	return b.String()
}

// UnmarshalJSON accepts code as either a string or a number; the Business API
// sends numeric codes.
func (e *BackendError) UnmarshalJSON(data []byte) error {
	type envelope BackendError
	var aux struct {
		*envelope
		Code json.RawMessage `json:"code,omitempty"`
	}
	aux.envelope = (*envelope)(e)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	raw := bytes.TrimSpace(aux.Code)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var code string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &code); err != nil {
			return err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("backend error code: %w", err)
		}
		code = n.String()
	}
	e.Code = &code
	return nil
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

// IsBackendError reports whether err carries a decoded backend error.
func IsBackendError(err error) bool {
	var e *BackendError
	return errors.As(err, &e)
}

// IsClientBuilderError reports whether err is a builder failure.
func IsClientBuilderError(err error) bool {
	var e *ClientBuilderError
	return errors.As(err, &e)
}

// IsClientError reports whether err is a ClientError of the given kind.
func IsClientError(err error, kind ClientErrorKind) bool {
	var e *ClientError
	return errors.As(err, &e) && e.Kind == kind
}

// IsCannotLogIn reports whether err is a login failure.
func IsCannotLogIn(err error) bool { return IsClientError(err, CannotLogIn) }

// IsRequestError reports whether err is a transport or response decoding failure.
func IsRequestError(err error) bool { return IsClientError(err, RequestError) }

// IsMissingEnvironmentVariable reports whether err is a missing credential variable.
func IsMissingEnvironmentVariable(err error) bool {
	var e *ClientBuilderError
	return errors.As(err, &e) && e.Kind == MissingEnvironmentVariable
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var e *BackendError
	return errors.As(err, &e) && e.StatusCode == 404
}
