// Copyright 2025-2026 Aiku AI

// Package switcher dispatches read-only Mastodon API calls across federated
// instances without the caller juggling per-host client objects.
//
// A [Switcher] keeps three pieces of state: a per-host client cache, the
// currently active host, and a "user@host" → id cache. Account-addressed
// operations (Account, AccountStatuses, ...) parse the handle, resolve it to
// an id on the account's own host and dispatch there; instance-addressed
// operations (Instance, TimelinePublic, Search, ...) dispatch to an explicit
// host or fall back to the active one; pagination continuations go back to
// the host that served the first page. Every operation restores the active
// host to its value at entry, on success and on failure alike.
//
// Failures are cached for the session: a host whose client could not be
// created and an acct that could not be resolved are not asked about again.
// [Switcher.ForgetHost] drops a host's cached state for a deliberate retry.
//
// With [Config.UseAppTokens] set, the switcher registers one application per
// host (scope "read" by default) and persists the credential pairs under
// <home>/cache/app_tokens.yaml, so repeated runs reuse the registration.
//
// Network operations are delegated to github.com/mattn/go-mastodon; its
// Pagination, Account, Status and related types appear unwrapped in this
// package's API. A Switcher is not safe for concurrent use.
package switcher
