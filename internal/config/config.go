// Package config loads the command line tool settings from defaults, an
// optional JSON file, ZSCHEMA_ environment variables and flags, in that order
// of increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/reoring/zschema"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "ZSCHEMA_"

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = ".zschema.json"

// Config holds the tool settings.
type Config struct {
	Indent     int    `koanf:"indent" validate:"min=0,max=8"`
	Policy     string `koanf:"policy" validate:"omitempty,oneof=error warn warning ignore"`
	Jobs       int    `koanf:"jobs" validate:"min=1,max=256"`
	MaxDepth   int    `koanf:"max_depth" validate:"min=1,max=100000"`
	Duplicates string `koanf:"duplicates" validate:"oneof=error warn ignore"`
	FailFast   bool   `koanf:"fail_fast"`
	LogLevel   string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat  string `koanf:"log_format" validate:"oneof=text json"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"indent":     2,
		"policy":     "",
		"jobs":       4,
		"max_depth":  zschema.DefaultMaxDepth,
		"duplicates": "error",
		"fail_fast":  false,
		"log_level":  "warn",
		"log_format": "text",
	}
}

// Load merges the sources. path names a JSON file that must exist; an empty
// path reads DefaultFile when present. overrides come last, keyed like the
// file.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")
	for key, v := range Defaults() {
		if err := k.Set(key, v); err != nil {
			return nil, err
		}
	}

	switch {
	case path != "":
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			if err := k.Load(file.Provider(DefaultFile), json.Parser()); err != nil {
				return nil, fmt.Errorf("config: load %s: %w", DefaultFile, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	for key, v := range overrides {
		if err := k.Set(key, v); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps ZSCHEMA_MAX_DEPTH to max_depth.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// RunPolicy returns the policy override for validation runs, if any.
func (c *Config) RunPolicy() (zschema.Policy, bool, error) {
	if c.Policy == "" {
		return zschema.PolicyInherit, false, nil
	}
	p, err := zschema.ParsePolicy(c.Policy)
	if err != nil {
		return p, false, err
	}
	return p, true, nil
}

// IndentString is the JSON indent unit.
func (c *Config) IndentString() string {
	return strings.Repeat(" ", c.Indent)
}
