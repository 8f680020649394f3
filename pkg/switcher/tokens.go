// Copyright 2025-2026 Aiku AI

package switcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// AppToken is a registered application's credential pair for one host.
type AppToken struct {
	ID     string `yaml:"id"`
	Secret string `yaml:"secret"`
}

// tokenStore holds per-host app tokens, persisted as a YAML mapping so
// later sessions reuse one registered application per host.
type tokenStore struct {
	path   string
	tokens map[string]AppToken
}

func loadTokenStore(path string) (*tokenStore, error) {
	ts := &tokenStore{path: path, tokens: make(map[string]AppToken)}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ts, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read app token cache: %w", err)
	}
	if err := yaml.Unmarshal(raw, &ts.tokens); err != nil {
		return nil, fmt.Errorf("failed to parse app token cache %q: %w", path, err)
	}
	return ts, nil
}

func (ts *tokenStore) Get(host string) (AppToken, bool) {
	tok, ok := ts.tokens[host]
	return tok, ok
}

func (ts *tokenStore) Put(host string, tok AppToken) error {
	ts.tokens[host] = tok
	raw, err := yaml.Marshal(ts.tokens)
	if err != nil {
		return err
	}
	return os.WriteFile(ts.path, raw, 0o600)
}

// appToken returns the host's app token, registering a new application on
// first use. A registration failure propagates to the caller, which caches
// it as a failed client so registration is attempted once per session.
func (s *Switcher) appToken(ctx context.Context, host string) (*AppToken, error) {
	if tok, ok := s.tokens.Get(host); ok {
		return &tok, nil
	}
	tok, err := s.registerApp(ctx, host, s.cfg.AppName, s.cfg.Scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to register app at %q: %w", host, err)
	}
	s.log.Info().Str("host", host).Str("app_name", s.cfg.AppName).Msg("Registered new app")
	if err := s.tokens.Put(host, tok); err != nil {
		s.log.Warn().Err(err).Str("path", s.tokens.path).Msg("Failed to persist app tokens")
	}
	return &tok, nil
}
