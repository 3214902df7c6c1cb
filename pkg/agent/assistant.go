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

package agent

import (
	"context"
	"log/slog"

	"github.com/ckarabay/lectern/pkg/config"
	"github.com/ckarabay/lectern/pkg/llms"
	"github.com/ckarabay/lectern/pkg/tools"
)

// Assistant ties the generator to a tool registry and surfaces
// retrieval provenance alongside each answer.
type Assistant struct {
	generator *Generator
	registry  *tools.Registry
}

func NewAssistant(client llms.Provider, registry *tools.Registry, cfg *config.AssistantConfig) *Assistant {
	if cfg == nil {
		cfg = &config.AssistantConfig{}
	}
	cfg.SetDefaults()

	return &Assistant{
		generator: NewGenerator(client, cfg.SystemPrompt, cfg.MaxRounds),
		registry:  registry,
	}
}

// Answer runs one query through the tool-use loop and returns the final
// answer text with the sources gathered during retrieval. Provenance is
// cleared before returning so it never leaks into the next query.
func (a *Assistant) Answer(ctx context.Context, query, history string) (string, []tools.Source, error) {
	answer, err := a.generator.Generate(ctx, query, history, a.registry.Definitions(), a.registry)
	if err != nil {
		a.registry.ResetSources()
		return "", nil, err
	}

	sources := a.registry.LastSources()
	a.registry.ResetSources()

	slog.Debug("Query answered", "sources", len(sources), "answer_len", len(answer))
	return answer, sources, nil
}
