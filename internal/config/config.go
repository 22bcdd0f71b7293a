// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the engine's YAML configuration file, analogous to
// the teacher's .cie/project.yaml / Config type.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/angelgo/internal/errors"
)

const (
	defaultConfigDir  = ".angelgo"
	defaultConfigFile = "engine.yaml"
	configVersion     = "1"
)

// EngineConfig is the on-disk shape of .angelgo/engine.yaml.
type EngineConfig struct {
	Version       string    `yaml:"version"`
	DefaultNS     string    `yaml:"default_namespace"`
	StringFactory string    `yaml:"string_factory"` // "default" or a host-provided name
	ServePort     int       `yaml:"serve_port"`
	GC            GCConfig  `yaml:"gc"`
	Template      TplConfig `yaml:"template"`
}

// GCConfig controls the object heap's collection policy.
type GCConfig struct {
	// Strategy is "refcount" (default; cycles are the embedder's problem,
	// per spec.md's Non-goals) or "refcount+cycle" if a future cycle
	// collector is enabled.
	Strategy       string `yaml:"strategy"`
	HeapInitial    int    `yaml:"heap_initial_capacity"`
	HeapGrowFactor int    `yaml:"heap_grow_factor"`
}

// TplConfig bounds template instantiation to keep a pathological script from
// growing the instance cache without limit.
type TplConfig struct {
	MaxInstances int `yaml:"max_instances"`
	MaxDepth     int `yaml:"max_nesting_depth"`
}

// Default returns sane defaults for embedding angelgo in a new host.
func Default() *EngineConfig {
	return &EngineConfig{
		Version:       configVersion,
		DefaultNS:     "",
		StringFactory: "default",
		ServePort:     8080,
		GC: GCConfig{
			Strategy:       "refcount",
			HeapInitial:    256,
			HeapGrowFactor: 2,
		},
		Template: TplConfig{
			MaxInstances: 4096,
			MaxDepth:     16,
		},
	}
}

// Load reads configuration from configPath, or auto-discovers
// .angelgo/engine.yaml by walking up from the working directory when
// configPath is empty. When configPath is empty and the ANGELGO_CONFIG_PATH
// environment variable is set, that path is used instead of discovery; a
// non-empty configPath is always used as given.
func Load(configPath string) (*EngineConfig, error) {
	if configPath == "" {
		configPath = os.Getenv("ANGELGO_CONFIG_PATH")
	}
	if configPath == "" {
		var err error
		configPath, err = find()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path comes from user config or discovery
	if err != nil {
		return nil, errors.NewConfigError(
			"Cannot read engine configuration",
			fmt.Sprintf("Failed to read %s", configPath),
			"Check file permissions and ensure the file exists",
			err,
		)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(
			"Invalid engine configuration",
			"YAML parsing failed - the config file contains syntax errors",
			fmt.Sprintf("Edit %s to fix syntax errors, or run 'angelgo init --force' to recreate", configPath),
			err,
		)
	}

	if cfg.Version != configVersion {
		return nil, errors.NewConfigError(
			"Unsupported engine configuration version",
			fmt.Sprintf("Config version %q is not supported (expected %q)", cfg.Version, configVersion),
			"Run 'angelgo init --force' to regenerate the configuration file",
			nil,
		)
	}

	return cfg, nil
}

// Save writes cfg to configPath as YAML, creating the parent directory if
// needed.
func Save(cfg *EngineConfig, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewInternalError(
			"Cannot encode engine configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug; please report it with your configuration details",
			err,
		)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.NewPermissionError(
			"Cannot create configuration directory",
			fmt.Sprintf("Permission denied creating %s", dir),
			"Check directory permissions",
			err,
		)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.NewPermissionError(
			"Cannot write engine configuration file",
			fmt.Sprintf("Permission denied writing to %s", configPath),
			"Check file permissions and ensure sufficient disk space",
			err,
		)
	}
	return nil
}

// Path returns <dir>/.angelgo/engine.yaml.
func Path(dir string) string {
	return filepath.Join(dir, defaultConfigDir, defaultConfigFile)
}

// Dir returns <dir>/.angelgo.
func Dir(dir string) string {
	return filepath.Join(dir, defaultConfigDir)
}

func find() (string, error) {
	if p := os.Getenv("ANGELGO_CONFIG_PATH"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		return "", errors.NewConfigError(
			"Configuration file not found",
			fmt.Sprintf("ANGELGO_CONFIG_PATH is set to %q but the file does not exist", p),
			"Fix the ANGELGO_CONFIG_PATH environment variable, or run 'angelgo init'",
			nil,
		)
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", errors.NewInternalError(
			"Cannot access working directory",
			"Failed to determine current directory path",
			"Check system permissions and try again",
			err,
		)
	}

	for {
		p := Path(dir)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.NewConfigError(
		"Engine configuration not found",
		"No .angelgo/engine.yaml file found in current directory or any parent directory",
		"Run 'angelgo init' to create a new configuration",
		nil,
	)
}
