// Copyright 2025-2026 Aiku AI

package switcher

import (
	"errors"
	"strconv"
)

// Sentinel errors wrapped by [*Error]. Test with [errors.Is].
var (
	// ErrNoHost is returned when a call needs a target host but none was
	// given and no active host is set.
	ErrNoHost = errors.New("no host given and no active host")
	// ErrNoAcct is returned by account-addressed calls without an acct.
	ErrNoAcct = errors.New("acct is required")
	// ErrMalformedAcct is returned when an acct has more than one host part.
	ErrMalformedAcct = errors.New(`acct must look like "user@host" or "user"`)
	// ErrHostUnavailable is returned when the target host's client could not
	// be created, now or earlier in the session.
	ErrHostUnavailable = errors.New("host unavailable")
	// ErrAccountNotFound is returned when an acct could not be resolved to
	// an account id.
	ErrAccountNotFound = errors.New("no id found for account")
)

// Error is the error type returned by all Switcher operations. It carries
// the operation name, the acct or host the caller addressed, and the host
// the call was dispatched to.
type Error struct {
	Op     string // operation name, e.g. "TimelinePublic"
	Target string // acct or host as given by the caller, if any
	Host   string // host the call was dispatched to, if known
	Err    error
}

func (e *Error) Error() string {
	msg := "switcher: " + e.Op
	if e.Target != "" {
		msg += " " + strconv.Quote(e.Target)
	}
	if e.Host != "" && e.Host != e.Target {
		msg += " on " + strconv.Quote(e.Host)
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
