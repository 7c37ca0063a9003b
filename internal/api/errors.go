package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Sentinels for classifying client errors with errors.Is.
var (
	ErrNetwork    = errors.New("api: network failure")
	ErrAuth       = errors.New("api: authentication failed")
	ErrValidation = errors.New("api: request rejected")
	ErrServer     = errors.New("api: server error")
)

// Kind classifies an Error into one of the sentinel categories.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindAuth
	KindValidation
	KindServer
)

const genericMessage = "an unexpected error occurred"

// Error is the single error shape surfaced by the client. Message is
// human-readable and prefers the server-supplied detail.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is maps each Kind onto its sentinel so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

func classify(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// errorFromResponse normalizes a non-2xx response body into an Error.
// FastAPI-style bodies carry "detail"; some handlers use "message".
func errorFromResponse(status int, body []byte) *Error {
	msg := genericMessage
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		var detail string
		if len(envelope.Detail) > 0 && json.Unmarshal(envelope.Detail, &detail) == nil && detail != "" {
			msg = detail
		} else if envelope.Message != "" {
			msg = envelope.Message
		}
	}
	return &Error{Kind: classify(status), Status: status, Message: msg}
}

func errorFromTransport(err error) *Error {
	msg := genericMessage
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindNetwork, Message: msg}
}
