// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ChainSafe/grandpa-bridge/internal/log"
	"github.com/ChainSafe/grandpa-bridge/lib/common"
	"github.com/ChainSafe/grandpa-bridge/lib/crypto/ed25519"
	grandpa "github.com/ChainSafe/grandpa-bridge/pkg/finality-grandpa"
	"github.com/ChainSafe/grandpa-bridge/pkg/header-chain/justification"

	"github.com/go-playground/validator/v10"
	"github.com/naoina/toml"
)

const (
	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"
	// DefaultLogFormat is the log format used when none is configured.
	DefaultLogFormat = "console"
	// DefaultMaxJustificationSize is the default maximum size in bytes of an
	// encoded justification.
	DefaultMaxJustificationSize = 1 << 20
	// DefaultWorkers is the default number of justifications verified in parallel.
	DefaultWorkers = 4
)

var (
	// ErrInvalidConfig is returned when a configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	errDuplicateAuthority = errors.New("duplicate authority")
)

// Config is the configuration of the verifier.
type Config struct {
	Log          LogConfig          `toml:"log,omitempty"`
	Verifier     VerifierConfig     `toml:"verifier,omitempty"`
	AuthoritySet AuthoritySetConfig `toml:"authority-set"`
}

// LogConfig is the logging configuration. Caller is a comma separated
// list of the caller details to log, among file, line and func.
type LogConfig struct {
	Level  string `toml:"level,omitempty" validate:"loglevel"`
	Format string `toml:"format,omitempty" validate:"logformat"`
	Caller string `toml:"caller,omitempty" validate:"logcaller"`
}

// VerifierConfig configures how justifications are read and verified.
type VerifierConfig struct {
	MaxJustificationSize int `toml:"max-justification-size,omitempty" validate:"gt=0"`
	Workers              int `toml:"workers,omitempty" validate:"gt=0"`
}

// AuthoritySetConfig is the authority set justifications are verified against.
type AuthoritySetConfig struct {
	SetID       uint64            `toml:"set-id"`
	Authorities []AuthorityConfig `toml:"authorities" validate:"required,min=1,dive"`
}

// AuthorityConfig is a GRANDPA authority with its voting weight.
type AuthorityConfig struct {
	PublicKey string `toml:"public-key" validate:"required,publickey"`
	Weight    uint64 `toml:"weight" validate:"gt=0"`
}

// Default returns the default configuration. It has no authorities and
// does not validate until some are added.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Verifier: VerifierConfig{
			MaxJustificationSize: DefaultMaxJustificationSize,
			Workers:              DefaultWorkers,
		},
	}
}

// Load reads the TOML configuration file at the given path over the
// default configuration and validates it.
func Load(path string) (*Config, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	return Decode(file)
}

// Decode reads a TOML configuration over the default configuration and
// validates it.
func Decode(reader io.Reader) (*Config, error) {
	cfg := Default()
	err := toml.NewDecoder(reader).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("decoding toml config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write writes the configuration as TOML to the file at the given path.
func Write(path string, cfg *Config) error {
	raw, err := toml.Marshal(*cfg)
	if err != nil {
		return fmt.Errorf("encoding toml config: %w", err)
	}

	err = os.WriteFile(path, raw, 0600)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	seen := make(map[string]struct{}, len(c.AuthoritySet.Authorities))
	for _, authority := range c.AuthoritySet.Authorities {
		publicKey, _ := parsePublicKey(authority.PublicKey)
		if _, ok := seen[publicKey.Hex()]; ok {
			return fmt.Errorf("%w: %w: %s", ErrInvalidConfig, errDuplicateAuthority, authority.PublicKey)
		}
		seen[publicKey.Hex()] = struct{}{}
	}
	return nil
}

// LogOptions returns the logger options of the logging configuration.
func (c *Config) LogOptions() ([]log.Option, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := log.ParseFormat(c.Log.Format)
	if err != nil {
		return nil, err
	}
	caller, err := log.ParseCaller(c.Log.Caller)
	if err != nil {
		return nil, err
	}
	return []log.Option{log.SetLevel(level), log.SetFormat(format), log.SetCaller(caller)}, nil
}

// VoterSet returns the voter set of the configured authorities.
func (c *Config) VoterSet() (*grandpa.VoterSet[justification.AuthorityID], error) {
	authorities, err := c.authorities()
	if err != nil {
		return nil, err
	}
	return grandpa.NewVoterSet(authorities)
}

// VerificationContext returns the context to verify justifications of the
// configured authority set with.
func (c *Config) VerificationContext() (justification.VerificationContext, error) {
	authorities, err := c.authorities()
	if err != nil {
		return justification.VerificationContext{}, err
	}
	return justification.NewVerificationContext(authorities, c.AuthoritySet.SetID)
}

func (c *Config) authorities() ([]grandpa.IDWeight[justification.AuthorityID], error) {
	authorities := make([]grandpa.IDWeight[justification.AuthorityID], len(c.AuthoritySet.Authorities))
	for i, authority := range c.AuthoritySet.Authorities {
		publicKey, err := parsePublicKey(authority.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("authority %d: %w", i, err)
		}
		authorities[i] = grandpa.IDWeight[justification.AuthorityID]{
			ID:     publicKey,
			Weight: grandpa.VoterWeight(authority.Weight),
		}
	}
	return authorities, nil
}

func parsePublicKey(s string) (publicKey justification.AuthorityID, err error) {
	b, err := common.HexToBytes(s)
	if err != nil {
		return publicKey, err
	}
	key, err := ed25519.NewPublicKey(b)
	if err != nil {
		return publicKey, err
	}
	return key.AsBytes(), nil
}

func newValidator() *validator.Validate {
	validate := validator.New()
	// registering fails only for empty tags or nil functions
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := log.ParseLevel(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		_, err := log.ParseFormat(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("logcaller", func(fl validator.FieldLevel) bool {
		_, err := log.ParseCaller(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("publickey", func(fl validator.FieldLevel) bool {
		_, err := parsePublicKey(fl.Field().String())
		return err == nil
	})
	return validate
}
