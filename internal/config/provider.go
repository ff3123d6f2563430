// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading a specific config.cue when set
	// (the CLI's --config flag).
	ConfigFilePath string
	// ConfigDirPath overrides the platform config directory lookup when
	// set. Used by tests to avoid touching the real home directory.
	ConfigDirPath string
}

// Provider resolves the tool configuration. The CLI composition root
// injects one so commands can be tested against a stub.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates the file-backed configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads the mason configuration, falling back to built-in defaults
// when no config file exists.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
