// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package commands

import (
	"fmt"
	"strings"

	"github.com/ChainSafe/grandpa-bridge/config"
	"github.com/ChainSafe/grandpa-bridge/internal/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "GRANDPA_BRIDGE"

// Viper keys of the configuration values settable with flags or environment variables.
const (
	logLevelKey             = "log.level"
	logFormatKey            = "log.format"
	logCallerKey            = "log.caller"
	workersKey              = "verifier.workers"
	maxJustificationSizeKey = "verifier.max-justification-size"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "cmd"))

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "grandpa-bridge",
		Short: "GRANDPA justification verifier",
		Long: `grandpa-bridge verifies GRANDPA finality justifications of a bridged chain
against a known authority set.
Usage:
	grandpa-bridge verify --config config.toml --header-hash 0x... --header-number 1 justification.hex
	grandpa-bridge required-precommits 15
	grandpa-bridge generate --out-dir ./dev
	grandpa-bridge authority-key --mnemonic "..."`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to the TOML configuration file")
	// binding only fails for a nil flag
	_ = addStringFlagBindViper(v, cmd, "log-level", config.DefaultLogLevel,
		"Log level: trace, debug, info, warn, error or critical", logLevelKey)
	_ = addStringFlagBindViper(v, cmd, "log-format", config.DefaultLogFormat,
		"Log format: console or text", logFormatKey)
	_ = addStringFlagBindViper(v, cmd, "log-caller", "",
		"Comma separated caller details to log: file, line and func", logCallerKey)
	_ = addIntFlagBindViper(v, cmd, "workers", config.DefaultWorkers,
		"Number of justifications verified in parallel", workersKey)
	_ = addIntFlagBindViper(v, cmd, "max-justification-size", config.DefaultMaxJustificationSize,
		"Maximum size in bytes of an encoded justification", maxJustificationSizeKey)

	cmd.AddCommand(
		newVerifyCommand(v),
		newRequiredPrecommitsCommand(),
		newGenerateCommand(),
		newAuthorityKeyCommand(),
	)
	return cmd
}

// loadConfig loads the configuration file given with --config and applies
// the flag and environment overrides on top of it.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get --config: %s", err)
	}
	if path == "" {
		return nil, fmt.Errorf("--config cannot be empty")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v.IsSet(logLevelKey) {
		cfg.Log.Level = v.GetString(logLevelKey)
	}
	if v.IsSet(logFormatKey) {
		cfg.Log.Format = v.GetString(logFormatKey)
	}
	if v.IsSet(logCallerKey) {
		cfg.Log.Caller = v.GetString(logCallerKey)
	}
	if v.IsSet(workersKey) {
		cfg.Verifier.Workers = v.GetInt(workersKey)
	}
	if v.IsSet(maxJustificationSizeKey) {
		cfg.Verifier.MaxJustificationSize = v.GetInt(maxJustificationSizeKey)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	options, err := cfg.LogOptions()
	if err != nil {
		return nil, err
	}
	log.Patch(options...)

	return cfg, nil
}
