// Package apperr is the closed error taxonomy shared by every layer.
// Handlers map Kind to a status code; Reason is surfaced to clients verbatim.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindEligibility  Kind = "eligibility_denied"
	KindConflict     Kind = "concurrency_conflict"
	KindUpstream     Kind = "upstream_failure"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
)

// Reason is the closed set of eligibility rejection codes.
type Reason string

const (
	ReasonKYCRequired   Reason = "KYC_REQUIRED"
	ReasonRoleConflict  Reason = "ROLE_CONFLICT"
	ReasonLimitExceeded Reason = "LIMIT_EXCEEDED"
	ReasonInvalidTenure Reason = "INVALID_TENURE"
)

type Error struct {
	Kind   Kind
	Reason Reason
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Reason != "" {
		msg = string(e.Reason) + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets the kind-only sentinels below (and kind+reason sentinels) match any
// error of the same kind. Sentinels with a message only match themselves.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Msg != "" || t.Err != nil {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrEligibility  = &Error{Kind: KindEligibility}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrUpstream     = &Error{Kind: KindUpstream}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidState = &Error{Kind: KindInvalidState}
)

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Denied(reason Reason, msg string) *Error {
	return &Error{Kind: KindEligibility, Reason: reason, Msg: msg}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func Upstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: cause}
}

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }

func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
