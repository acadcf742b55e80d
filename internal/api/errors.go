package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Error is the normalized shape of every non-2xx backend response. It
// carries the HTTP status, the parsed body when one was present, and a
// best-effort human message extracted from the server's field errors.
type Error struct {
	StatusCode int
	Body       []byte
	Fields     map[string]json.RawMessage
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// NetworkError wraps a failure where no response was received at all
// (DNS, connection refused, reset). Distinct from an HTTP error response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "no response from server: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError marks a request that exceeded the configured bound.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return "request timed out: " + e.Err.Error()
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// DecodeError marks a response body that was not valid JSON where JSON was
// expected.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "malformed response body: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err represents a connectivity failure.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsTimeout reports whether err represents a request timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsStatus reports whether err is a backend error response with the given
// HTTP status.
func IsStatus(err error, status int) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.StatusCode == status
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not a
// backend error response.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

const genericErrorMessage = "Something went wrong"

// newError builds the normalized error for a non-2xx response body.
func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Body: body, Message: genericErrorMessage}
	if len(body) == 0 {
		return e
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		// A bare string body is still a usable message.
		var s string
		if json.Unmarshal(body, &s) == nil && s != "" {
			e.Message = s
		}
		return e
	}
	e.Fields = fields
	e.Message = extractMessage(fields)
	return e
}

// extractMessage picks the most specific human message the server offered:
// detail, then message, then the first non_field_errors entry, then the
// first value of the lexically first key.
func extractMessage(fields map[string]json.RawMessage) string {
	if m := stringValue(fields["detail"]); m != "" {
		return m
	}
	if m := stringValue(fields["message"]); m != "" {
		return m
	}
	if m := stringValue(fields["non_field_errors"]); m != "" {
		return m
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m := stringValue(fields[k]); m != "" {
			return m
		}
	}
	return genericErrorMessage
}

// stringValue coerces a raw JSON value into a message string: a plain
// string, the first element of an array, or the string form of anything
// else.
func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return ""
		}
		return stringValue(list[0])
	}
	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// FieldMessage returns the first message the server reported for the named
// field, or "" when the field has no errors attached.
func (e *Error) FieldMessage(field string) string {
	if e.Fields == nil {
		return ""
	}
	return stringValue(e.Fields[field])
}
