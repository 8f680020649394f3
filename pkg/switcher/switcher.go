// Copyright 2025-2026 Aiku AI

package switcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-mastodon"
	"github.com/rs/zerolog"
)

// Switcher dispatches read-only Mastodon API calls across instances. It
// lazily creates one client per host, resolves "user@host" handles to
// account ids through an id cache, and temporarily redirects each call to
// the right host's client before restoring the previously active host.
//
// A Switcher is not safe for concurrent use.
type Switcher struct {
	cfg Config
	log zerolog.Logger

	newClient   clientFactory
	registerApp registerFunc

	// clients caches one client per host. A nil value marks a host whose
	// client creation failed; it is not retried within the session.
	clients map[string]Client

	activeHost   string
	previousHost string

	// acctIDs caches resolved ids keyed by "user@host". A nil value marks
	// a failed lookup; it is not retried within the session.
	acctIDs map[string]*mastodon.ID

	tokens *tokenStore
}

// New creates a Switcher. With cfg.UseAppTokens set, the home directory
// (default: current working directory) is created if missing and the
// per-host app token cache is loaded from it.
func New(cfg Config) (*Switcher, error) {
	cfg.applyDefaults()
	s := &Switcher{
		cfg:         cfg,
		log:         cfg.logger().With().Str("component", "switcher").Logger(),
		newClient:   newMastodonClient,
		registerApp: registerMastodonApp,
		clients:     make(map[string]Client),
		acctIDs:     make(map[string]*mastodon.ID),
	}
	if cfg.UseAppTokens {
		home, err := s.initHomeDir(cfg.HomeDir)
		if err != nil {
			return nil, err
		}
		s.tokens, err = loadTokenStore(filepath.Join(home, cacheDirName, tokenFileName))
		if err != nil {
			return nil, err
		}
	} else if cfg.HomeDir != "" {
		s.log.Info().Str("home_dir", cfg.HomeDir).
			Msg("Ignoring home dir, not needed without app tokens")
	}
	return s, nil
}

func (s *Switcher) initHomeDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		dir = wd
		s.log.Info().Str("home_dir", dir).Msg("Using current working directory as home dir")
	}
	if err := os.MkdirAll(filepath.Join(dir, cacheDirName), 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return dir, nil
}

// ActiveHost returns the currently active host, or "" if none.
func (s *Switcher) ActiveHost() string {
	return s.activeHost
}

// PreviousHost returns the host most recently targeted by SetHost or a
// dispatched call, regardless of whether the active host has since been
// restored. Pagination-continuation calls without a host fall back to it.
func (s *Switcher) PreviousHost() string {
	return s.previousHost
}

// SetHost activates the client for hostname, creating it on first use. An
// empty hostname clears the active host. A creation failure is cached for
// the session: the host is left inactive and later SetHost calls for it do
// not retry. hostname may be a bare host or a URL; it is normalized either way.
func (s *Switcher) SetHost(ctx context.Context, hostname string) {
	if hostname == "" {
		s.activeHost = ""
		return
	}
	host := normalizeHost(hostname)
	s.previousHost = host
	if s.activeHost == host {
		return
	}
	if client, seen := s.clients[host]; seen {
		if client == nil {
			s.log.Warn().Str("host", host).
				Msg("Client creation failed earlier in this session, not retrying")
			s.activeHost = ""
		} else {
			s.activeHost = host
		}
		return
	}
	client, err := s.createClient(ctx, host)
	if err != nil {
		s.log.Error().Err(err).Str("host", host).Msg("Failed to create client")
		s.clients[host] = nil
		s.activeHost = ""
		return
	}
	s.clients[host] = client
	s.activeHost = host
	s.log.Debug().Str("host", host).Msg("Created client")
}

func (s *Switcher) createClient(ctx context.Context, host string) (Client, error) {
	var token *AppToken
	if s.cfg.UseAppTokens {
		tok, err := s.appToken(ctx, host)
		if err != nil {
			return nil, err
		}
		token = tok
	}
	return s.newClient(ctx, host, token)
}

// ForgetHost drops a host's cached client, including a cached creation
// failure, along with every account id resolved on it. The next call
// targeting the host creates its client again. This is the only way a
// failed host is ever retried.
func (s *Switcher) ForgetHost(hostname string) {
	host := normalizeHost(hostname)
	if host == "" {
		return
	}
	delete(s.clients, host)
	if s.activeHost == host {
		s.activeHost = ""
	}
	for acct := range s.acctIDs {
		if strings.HasSuffix(acct, "@"+host) {
			delete(s.acctIDs, acct)
		}
	}
}
