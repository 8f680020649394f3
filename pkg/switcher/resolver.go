// Copyright 2025-2026 Aiku AI

package switcher

import (
	"context"
	"fmt"

	"github.com/mattn/go-mastodon"
	"go.mau.fi/util/ptr"
)

// AccountID resolves user on host to an account id, using the id cache when
// possible. A failed lookup is cached so the account is asked about at most
// once per session; a connection failure is not cached here (the client
// cache already tracks it). The active host is restored before returning,
// success or failure.
func (s *Switcher) AccountID(ctx context.Context, user, host string) (mastodon.ID, error) {
	host = normalizeHost(host)
	if user == "" || host == "" {
		return "", fmt.Errorf("account resolution needs user and host: %w", ErrNoAcct)
	}
	acct := user + "@" + host
	if id, seen := s.acctIDs[acct]; seen {
		if id == nil {
			s.log.Debug().Str("acct", acct).Msg("Lookup failed earlier in this session")
			return "", fmt.Errorf("account %q: %w", acct, ErrAccountNotFound)
		}
		return *id, nil
	}

	orig := s.activeHost
	defer s.SetHost(ctx, orig)
	s.SetHost(ctx, host)
	if s.activeHost == "" {
		return "", fmt.Errorf("account %q: %w", acct, ErrHostUnavailable)
	}
	account, err := s.clients[s.activeHost].AccountLookup(ctx, acct)
	if err != nil {
		s.log.Warn().Err(err).Str("acct", acct).Msg("Account lookup failed")
		s.acctIDs[acct] = nil
		return "", fmt.Errorf("account %q: %w: %w", acct, ErrAccountNotFound, err)
	}
	s.acctIDs[acct] = ptr.Ptr(account.ID)
	return account.ID, nil
}
