// Copyright 2025-2026 Aiku AI

package switcher

import (
	"os"

	"github.com/rs/zerolog"
	"go.mau.fi/util/exzerolog"
	"gopkg.in/yaml.v3"
)

const (
	defaultAppName = "mastohop"
	defaultScopes  = "read"

	cacheDirName  = "cache"
	tokenFileName = "app_tokens.yaml"
)

// Config holds the instance switcher configuration.
type Config struct {
	// HomeDir is the base directory for on-disk state. It is only used when
	// UseAppTokens is set and defaults to the current working directory.
	HomeDir string `yaml:"home_dir"`
	// UseAppTokens registers one application per host and reuses its
	// credential pair across sessions via the on-disk token cache.
	UseAppTokens bool `yaml:"use_app_tokens"`
	// AppName is the client name used when registering applications.
	// Defaults to "mastohop".
	AppName string `yaml:"app_name"`
	// Scopes is the OAuth scope string requested at app registration.
	// Defaults to "read".
	Scopes string `yaml:"scopes"`

	// Logger receives diagnostics. When nil a default stderr logger is used.
	Logger *zerolog.Logger `yaml:"-"`
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig Config
	return node.Decode((*rawConfig)(c))
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = defaultAppName
	}
	if c.Scopes == "" {
		c.Scopes = defaultScopes
	}
}

func (c *Config) logger() zerolog.Logger {
	if c.Logger != nil {
		return *c.Logger
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	exzerolog.SetupDefaults(&log)
	return log
}
