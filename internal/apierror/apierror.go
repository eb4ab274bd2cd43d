// Package apierror is the error taxonomy shared by every handler and the
// single place where errors become HTTP responses.
package apierror

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Status maps a kind onto its HTTP status. Conflicts are reported as 400.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one rejected request field.
type FieldError struct {
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// Error carries a public message plus an optional cause that is only logged.
type Error struct {
	Kind   Kind
	Msg    string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

const internalMessage = "Server Error"

func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Msg: "validation failed", Fields: fields}
}

// BadRequest is a validation failure that is not tied to a single field.
func BadRequest(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func Unauthenticated(msg string, cause error) *Error {
	return &Error{Kind: KindUnauthenticated, Msg: msg, Err: cause}
}

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Msg: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Msg: msg} }

func TooManyRequests(msg string) *Error { return &Error{Kind: KindTooManyRequests, Msg: msg} }

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Msg: internalMessage, Err: cause}
}

// Write renders err. Unclassified errors become a 500 with a fixed body and
// are logged with their cause.
func Write(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal(err)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	status := e.Kind.Status()
	switch e.Kind {
	case KindInternal:
		logger.Errorw("request failed", "err", e.Err)
		WriteJSON(w, status, map[string]string{"msg": internalMessage})
	case KindValidation:
		if len(e.Fields) > 0 {
			WriteJSON(w, status, map[string]any{"errors": e.Fields})
			return
		}
		WriteJSON(w, status, map[string]string{"msg": e.Msg})
	default:
		if e.Err != nil {
			logger.Debugw("request rejected", "kind", e.Kind.String(), "err", e.Err)
		}
		WriteJSON(w, status, map[string]string{"msg": e.Msg})
	}
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
