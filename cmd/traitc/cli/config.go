// Copyright 2026 The OODS Foundry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"

	"github.com/kneelinghorse/OODS-Foundry-mcp-sub005/lib/config"
)

// ConfigFile is an embeddable struct that adds --config to a command's
// parameter struct.
type ConfigFile struct {
	ConfigPath string `json:"-" flag:"config" desc:"path to traitc.yaml (default: $TRAITC_CONFIG)"`
}

// LoadConfig loads the configuration named by --config, then by
// TRAITC_CONFIG. With neither set it returns [config.Default]. The
// result is validated.
func (c *ConfigFile) LoadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case c.ConfigPath != "":
		cfg, err = config.LoadFile(c.ConfigPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}
