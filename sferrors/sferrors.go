package sferrors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies an API failure. The numeric values follow the
// custom-code convention starting from 10000.
type Kind int

const (
	// KindRequestNotOK fires whenever a response comes back with HTTP 200
	// but an ok:false flag in the body. It is raised by the transport
	// helper before any per-call status mapping runs.
	KindRequestNotOK Kind = 10000 + iota
	// KindHealthcheckFailed means a liveness probe returned a non-200
	// status or an ok:false flag.
	KindHealthcheckFailed
	// KindUnknownExchange is a 404 while listing an exchange's stocks.
	// No payload is guaranteed present, so it carries none.
	KindUnknownExchange
	// KindBadRequest is an unexpected failure status on orderbook, quote
	// or order placement calls.
	KindBadRequest
	// KindUnauthorized is a 401 on order status or order cancel calls.
	KindUnauthorized
)

// Error is a classified API failure carrying the HTTP status code and
// the raw response body (nil when none is available).
type Error struct {
	Kind       Kind
	StatusCode int
	Body       []byte
}

// Error renders the status code line, then the pretty-printed response
// body if one was captured.
func (e *Error) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("status code: %v", e.StatusCode)
	}
	return fmt.Sprintf("status code: %v\nresponse: %v", e.StatusCode, prettify(e.Body))
}

func prettify(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}

func New(kind Kind, statusCode int, body []byte) *Error {
	return &Error{Kind: kind, StatusCode: statusCode, Body: body}
}

func NewRequestNotOK(statusCode int, body []byte) *Error {
	return New(KindRequestNotOK, statusCode, body)
}

func NewHealthcheckFailed(statusCode int, body []byte) *Error {
	return New(KindHealthcheckFailed, statusCode, body)
}

func NewUnknownExchange(statusCode int) *Error {
	return New(KindUnknownExchange, statusCode, nil)
}

func NewBadRequest(statusCode int, body []byte) *Error {
	return New(KindBadRequest, statusCode, body)
}

func NewUnauthorized(statusCode int, body []byte) *Error {
	return New(KindUnauthorized, statusCode, body)
}

// IsAPIError reports whether err belongs to the API error taxonomy,
// regardless of kind.
func IsAPIError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

func isKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

func IsRequestNotOK(err error) bool      { return isKind(err, KindRequestNotOK) }
func IsHealthcheckFailed(err error) bool { return isKind(err, KindHealthcheckFailed) }
func IsUnknownExchange(err error) bool   { return isKind(err, KindUnknownExchange) }
func IsBadRequest(err error) bool        { return isKind(err, KindBadRequest) }
func IsUnauthorized(err error) bool      { return isKind(err, KindUnauthorized) }

// SyntaxError is raised by the shell's command parser. It is unrelated
// to the HTTP taxonomy: it carries the full token sequence and the index
// of the token where parsing stopped.
type SyntaxError struct {
	Tokens []string
	Idx    int
}

func NewSyntaxError(tokens []string, idx int) *SyntaxError {
	return &SyntaxError{Tokens: tokens, Idx: idx}
}

// Error renders the original line with a caret positioned under the
// first byte of the offending token.
func (e *SyntaxError) Error() string {
	offset := 0
	for i := 0; i < e.Idx && i < len(e.Tokens); i++ {
		offset += len(e.Tokens[i]) + 1
	}
	return strings.Join(e.Tokens, " ") + "\n" + strings.Repeat(" ", offset) + "^"
}

func IsSyntaxError(err error) bool {
	_, ok := err.(*SyntaxError)
	return ok
}
