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

package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ckarabay/lectern/pkg/config"
)

type AnthropicProvider struct {
	config     *config.LLMProviderConfig
	httpClient *http.Client
}

type AnthropicTool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

type AnthropicToolChoice struct {
	Type string `json:"type"`
}

type AnthropicRequest struct {
	Model       string               `json:"model"`
	Messages    []AnthropicMessage   `json:"messages"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature float64              `json:"temperature,omitempty"`
	System      string               `json:"system,omitempty"`
	Tools       []AnthropicTool      `json:"tools,omitempty"`
	ToolChoice  *AnthropicToolChoice `json:"tool_choice,omitempty"`
}

type AnthropicMessage struct {
	Role    string             `json:"role"`
	Content []AnthropicContent `json:"content"`
}

type AnthropicResponse struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Role       string             `json:"role"`
	Content    []AnthropicContent `json:"content"`
	Model      string             `json:"model"`
	StopReason string             `json:"stop_reason"`
	Usage      AnthropicUsage     `json:"usage"`
	Error      *AnthropicError    `json:"error,omitempty"`
}

type AnthropicContent struct {
	Type      string                  `json:"type"`
	Text      string                  `json:"text,omitempty"`
	ID        string                  `json:"id,omitempty"`
	Name      string                  `json:"name,omitempty"`
	Input     *map[string]interface{} `json:"input,omitempty"`
	ToolUseID string                  `json:"tool_use_id,omitempty"`
	Content   string                  `json:"content,omitempty"`
	IsError   bool                    `json:"is_error,omitempty"`
}

type AnthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type AnthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewAnthropicProviderFromConfig creates a provider over the Messages API.
// Requests are not retried; transport and API failures surface as errors.
func NewAnthropicProviderFromConfig(cfg *config.LLMProviderConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for Anthropic")
	}

	if cfg.Host == "" {
		cfg.Host = "https://api.anthropic.com"
	}

	return &AnthropicProvider{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}, nil
}

func (p *AnthropicProvider) GetModelName() string {
	return p.config.Model
}

func (p *AnthropicProvider) Close() error {
	return nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	request, err := p.buildRequest(req)
	if err != nil {
		return nil, err
	}

	response, err := p.makeRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	if response.Error != nil {
		return nil, fmt.Errorf("anthropic API error: %s (type: %s)", response.Error.Message, response.Error.Type)
	}

	blocks := make([]Block, 0, len(response.Content))
	for _, content := range response.Content {
		switch content.Type {
		case "text":
			blocks = append(blocks, TextBlock(content.Text))
		case "tool_use":
			var args map[string]interface{}
			if content.Input != nil {
				args = *content.Input
			}
			blocks = append(blocks, ToolUseBlock(content.ID, content.Name, args))
		}
	}

	return &Response{
		Blocks:       blocks,
		StopReason:   StopReason(response.StopReason),
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
	}, nil
}

func (p *AnthropicProvider) buildRequest(req Request) (AnthropicRequest, error) {
	messages := make([]AnthropicMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		contents := make([]AnthropicContent, 0, len(msg.Blocks))
		for _, block := range msg.Blocks {
			switch block.Kind {
			case BlockText:
				contents = append(contents, AnthropicContent{
					Type: "text",
					Text: block.Text,
				})
			case BlockToolUse:
				input := block.Input
				if input == nil {
					input = make(map[string]interface{})
				}
				contents = append(contents, AnthropicContent{
					Type:  "tool_use",
					ID:    block.ID,
					Name:  block.Name,
					Input: &input,
				})
			case BlockToolResult:
				contents = append(contents, AnthropicContent{
					Type:      "tool_result",
					ToolUseID: block.ToolUseID,
					Content:   block.Content,
					IsError:   block.IsError,
				})
			default:
				return AnthropicRequest{}, fmt.Errorf("unknown block kind: %q", block.Kind)
			}
		}
		messages = append(messages, AnthropicMessage{
			Role:    string(msg.Role),
			Content: contents,
		})
	}

	request := AnthropicRequest{
		Model:       p.config.Model,
		Messages:    messages,
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
		System:      req.System,
	}

	if len(req.Tools) > 0 {
		anthropicTools := make([]AnthropicTool, len(req.Tools))
		for i, tool := range req.Tools {
			anthropicTools[i] = AnthropicTool{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: tool.Parameters,
			}
		}
		request.Tools = anthropicTools
		request.ToolChoice = &AnthropicToolChoice{Type: "auto"}
	}

	return request, nil
}

func (p *AnthropicProvider) makeRequest(ctx context.Context, request AnthropicRequest) (*AnthropicResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.config.Host+"/v1/messages", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.config.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response AnthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}

var _ Provider = (*AnthropicProvider)(nil)
