// Copyright 2026 Can Karabay
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Loader reads yaml configuration files with environment variable expansion.
type Loader struct {
	koanf  *koanf.Koanf
	path   string
	parser *yaml.YAML
}

func NewLoader(path string) (*Loader, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required")
	}

	return &Loader{
		koanf:  koanf.New("."),
		path:   path,
		parser: yaml.Parser(),
	}, nil
}

func (l *Loader) Load() (*Config, error) {
	if err := l.koanf.Load(file.Provider(l.path), l.parser); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", l.path, err)
	}

	if err := l.expandEnvVarsInKoanf(); err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	cfg := &Config{}
	if err := l.koanf.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "yaml",
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// expandEnvVarsInKoanf rebuilds the koanf tree with env references expanded.
func (l *Loader) expandEnvVarsInKoanf() error {
	expanded, ok := ExpandEnvVarsInData(l.koanf.Raw()).(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected type after env var expansion")
	}

	newKoanf := koanf.New(".")
	if err := newKoanf.Load(confmap.Provider(expanded, "."), nil); err != nil {
		return fmt.Errorf("failed to load expanded config: %w", err)
	}

	l.koanf = newKoanf
	return nil
}

// LoadConfig loads, expands, defaults and validates a yaml config file.
func LoadConfig(path string) (*Config, error) {
	loader, err := NewLoader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}
	return loader.Load()
}

// DefaultConfig returns a fully defaulted configuration for use without a
// config file. The LLM API key is taken from the environment.
func DefaultConfig(apiKey string) *Config {
	cfg := &Config{
		LLM: &LLMProviderConfig{APIKey: apiKey},
	}
	cfg.SetDefaults()
	return cfg
}
