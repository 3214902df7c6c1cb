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

package tools

import (
	"context"

	"github.com/ckarabay/lectern/pkg/llms"
)

type ToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters,omitempty"`
}

type ToolParameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Source records where a piece of retrieved content came from.
// URL is empty when no link could be resolved.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Result is a tool outcome. Content is the model-visible text; Sources is
// the provenance for the user-facing citation list.
type Result struct {
	Content string
	Sources []Source
}

type Tool interface {
	GetInfo() ToolInfo

	Execute(ctx context.Context, args map[string]interface{}) (Result, error)

	GetName() string

	GetDescription() string
}

// ToDefinition converts tool metadata to the provider wire shape
// ({"type": "object", "properties": ..., "required": ...}).
func (info ToolInfo) ToDefinition() llms.ToolDefinition {
	properties := make(map[string]interface{}, len(info.Parameters))
	var required []string

	for _, p := range info.Parameters {
		prop := map[string]interface{}{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	return llms.ToolDefinition{
		Name:        info.Name,
		Description: info.Description,
		Parameters:  schema,
	}
}
