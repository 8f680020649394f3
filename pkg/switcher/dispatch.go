// Copyright 2025-2026 Aiku AI

package switcher

import (
	"context"

	"github.com/mattn/go-mastodon"
)

// The two call shapes below are the whole dispatch machinery: every public
// operation goes through one of them. Both restore the active host to its
// entry value on every exit path and wrap failures into *Error.

// accountCall dispatches an account-addressed operation: parse the acct,
// resolve it to an id, activate the account's host, invoke, restore.
func accountCall[T any](ctx context.Context, s *Switcher, op, acct string, fn func(ctx context.Context, c Client, id mastodon.ID) (T, error)) (T, error) {
	var zero T
	user, host, err := parseAcct(acct)
	if err != nil {
		return zero, &Error{Op: op, Target: acct, Err: err}
	}
	if host == "" {
		if s.activeHost == "" {
			return zero, &Error{Op: op, Target: acct, Err: ErrNoHost}
		}
		host = s.activeHost
	}

	orig := s.activeHost
	defer func() { s.activeHost = orig }()

	id, err := s.AccountID(ctx, user, host)
	if err != nil {
		return zero, &Error{Op: op, Target: acct, Host: host, Err: err}
	}
	s.SetHost(ctx, host)
	if s.activeHost == "" {
		return zero, &Error{Op: op, Target: acct, Host: host, Err: ErrHostUnavailable}
	}
	out, err := fn(ctx, s.clients[s.activeHost], id)
	if err != nil {
		return zero, &Error{Op: op, Target: acct, Host: host, Err: err}
	}
	return out, nil
}

// instanceCall dispatches an instance-addressed operation: pick the target
// host, activate it, invoke, restore. continuation marks calls carrying a
// pagination token, which may fall back to the previously targeted host.
func instanceCall[T any](ctx context.Context, s *Switcher, op, host string, continuation bool, fn func(ctx context.Context, c Client) (T, error)) (T, error) {
	var zero T
	target, err := s.resolveTarget(op, host, continuation)
	if err != nil {
		return zero, err
	}

	orig := s.activeHost
	defer func() { s.activeHost = orig }()

	s.SetHost(ctx, target)
	if s.activeHost == "" {
		return zero, &Error{Op: op, Host: target, Err: ErrHostUnavailable}
	}
	out, err := fn(ctx, s.clients[s.activeHost])
	if err != nil {
		return zero, &Error{Op: op, Host: target, Err: err}
	}
	return out, nil
}

// resolveTarget picks the host for an instance-addressed call: the explicit
// host if given, else (for continuation calls) the previously targeted host,
// else the active host. Continuations prefer the previous host because the
// token was issued by whichever host served the first page, which is not
// necessarily the active one.
func (s *Switcher) resolveTarget(op, host string, continuation bool) (string, error) {
	if host != "" {
		return normalizeHost(host), nil
	}
	if continuation && s.previousHost != "" {
		return s.previousHost, nil
	}
	if s.activeHost != "" {
		return s.activeHost, nil
	}
	return "", &Error{Op: op, Err: ErrNoHost}
}

// hasContinuation reports whether pg carries a continuation token from an
// earlier page.
func hasContinuation(pg *mastodon.Pagination) bool {
	return pg != nil && (pg.MaxID != "" || pg.SinceID != "" || pg.MinID != "")
}
