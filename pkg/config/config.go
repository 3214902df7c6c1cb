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

	"github.com/ckarabay/lectern/pkg/observability"
	"github.com/ckarabay/lectern/pkg/vector"
)

// LLMProviderConfig configures the model client.
type LLMProviderConfig struct {
	Type        string  `yaml:"type"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	Host        string  `yaml:"host,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	Timeout     int     `yaml:"timeout,omitempty"`
}

func (c *LLMProviderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "anthropic"
	}
	if c.Model == "" {
		c.Model = "claude-sonnet-4-20250514"
	}
	if c.Host == "" {
		c.Host = "https://api.anthropic.com"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 800
	}
	if c.Timeout == 0 {
		c.Timeout = 120
	}
}

func (c *LLMProviderConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("llm api_key is required")
	}
	return nil
}

// EmbedderProviderConfig configures the embedding client.
type EmbedderProviderConfig struct {
	Type      string `yaml:"type"`
	Model     string `yaml:"model"`
	Host      string `yaml:"host,omitempty"`
	Dimension int    `yaml:"dimension,omitempty"`
	Timeout   int    `yaml:"timeout,omitempty"`
}

func (c *EmbedderProviderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "ollama"
	}
	if c.Model == "" {
		c.Model = "nomic-embed-text"
	}
	if c.Host == "" {
		c.Host = "http://localhost:11434"
	}
	if c.Dimension == 0 {
		c.Dimension = 768
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
}

// StoreConfig configures the course content store.
type StoreConfig struct {
	CatalogCollection string `yaml:"catalog_collection,omitempty"`
	ContentCollection string `yaml:"content_collection,omitempty"`
	MaxResults        int    `yaml:"max_results,omitempty"`
}

func (c *StoreConfig) SetDefaults() {
	if c.CatalogCollection == "" {
		c.CatalogCollection = "course_catalog"
	}
	if c.ContentCollection == "" {
		c.ContentCollection = "course_content"
	}
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
}

// AssistantConfig configures the generation loop.
type AssistantConfig struct {
	// SystemPrompt overrides the built-in assistant policy text.
	SystemPrompt string `yaml:"system_prompt,omitempty"`

	// MaxRounds bounds tool-use rounds per query.
	MaxRounds int `yaml:"max_rounds,omitempty"`
}

func (c *AssistantConfig) SetDefaults() {
	if c.MaxRounds == 0 {
		c.MaxRounds = 2
	}
}

// LoggerConfig configures slog output.
type LoggerConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	File   string `yaml:"file,omitempty"`
}

func (c *LoggerConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "simple"
	}
}

// Config is the root configuration.
type Config struct {
	LLM         *LLMProviderConfig          `yaml:"llm,omitempty"`
	Embedder    *EmbedderProviderConfig     `yaml:"embedder,omitempty"`
	VectorStore *vector.ProviderConfig      `yaml:"vector_store,omitempty"`
	Store       *StoreConfig                `yaml:"store,omitempty"`
	Assistant   *AssistantConfig            `yaml:"assistant,omitempty"`
	Logger      *LoggerConfig               `yaml:"logger,omitempty"`
	Tracing     *observability.TracerConfig `yaml:"tracing,omitempty"`
}

func (c *Config) SetDefaults() {
	if c.LLM == nil {
		c.LLM = &LLMProviderConfig{}
	}
	c.LLM.SetDefaults()

	if c.Embedder == nil {
		c.Embedder = &EmbedderProviderConfig{}
	}
	c.Embedder.SetDefaults()

	if c.VectorStore == nil {
		c.VectorStore = &vector.ProviderConfig{}
	}
	c.VectorStore.SetDefaults()

	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	c.Store.SetDefaults()

	if c.Assistant == nil {
		c.Assistant = &AssistantConfig{}
	}
	c.Assistant.SetDefaults()

	if c.Logger == nil {
		c.Logger = &LoggerConfig{}
	}
	c.Logger.SetDefaults()
}

func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.VectorStore.Validate(); err != nil {
		return err
	}
	return nil
}
