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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ckarabay/lectern/pkg/vector"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
llm:
  api_key: test-key
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Type)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.Equal(t, "https://api.anthropic.com", cfg.LLM.Host)
	assert.Equal(t, 800, cfg.LLM.MaxTokens)

	assert.Equal(t, "ollama", cfg.Embedder.Type)
	assert.Equal(t, "nomic-embed-text", cfg.Embedder.Model)
	assert.Equal(t, 768, cfg.Embedder.Dimension)

	assert.Equal(t, vector.ProviderChromem, cfg.VectorStore.Type)
	assert.Equal(t, "course_catalog", cfg.Store.CatalogCollection)
	assert.Equal(t, "course_content", cfg.Store.ContentCollection)
	assert.Equal(t, 5, cfg.Store.MaxResults)
	assert.Equal(t, 2, cfg.Assistant.MaxRounds)
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "secret-from-env")

	path := writeConfig(t, `
llm:
  api_key: ${ANTHROPIC_API_KEY}
  model: claude-3-5-haiku-20241022
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.LLM.APIKey)
	assert.Equal(t, "claude-3-5-haiku-20241022", cfg.LLM.Model)
}

func TestLoadConfigEnvVarDefault(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")

	path := writeConfig(t, `
llm:
  api_key: k
embedder:
  host: ${OLLAMA_HOST:-http://localhost:11434}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", cfg.Embedder.Host)
}

func TestLoadConfigMissingAPIKey(t *testing.T) {
	path := writeConfig(t, `
store:
  max_results: 3
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestLoadConfigQdrant(t *testing.T) {
	path := writeConfig(t, `
llm:
  api_key: k
vector_store:
  type: qdrant
  qdrant:
    host: qdrant.internal
    port: 6334
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, vector.ProviderQdrant, cfg.VectorStore.Type)
	require.NotNil(t, cfg.VectorStore.Qdrant)
	assert.Equal(t, "qdrant.internal", cfg.VectorStore.Qdrant.Host)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("k")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "k", cfg.LLM.APIKey)
	assert.Equal(t, 2, cfg.Assistant.MaxRounds)
}

func TestExpandEnvVarsInDataParsesScalars(t *testing.T) {
	t.Setenv("MAX_RESULTS", "7")

	out := ExpandEnvVarsInData(map[string]interface{}{
		"store": map[string]interface{}{"max_results": "${MAX_RESULTS}"},
	})

	store := out.(map[string]interface{})["store"].(map[string]interface{})
	assert.Equal(t, 7, store["max_results"])
}
