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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ckarabay/lectern/pkg/config"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*AnthropicProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewAnthropicProviderFromConfig(&config.LLMProviderConfig{
		Type:      "anthropic",
		Model:     "claude-sonnet-4-20250514",
		APIKey:    "test-key",
		Host:      server.URL,
		MaxTokens: 800,
		Timeout:   5,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	return provider, server
}

func TestGenerateTextResponse(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("unexpected api key header: %s", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("unexpected version header: %s", got)
		}

		json.NewEncoder(w).Encode(AnthropicResponse{
			Content: []AnthropicContent{
				{Type: "text", Text: "General knowledge answer"},
			},
			StopReason: "end_turn",
			Usage:      AnthropicUsage{InputTokens: 10, OutputTokens: 5},
		})
	})

	resp, err := provider.Generate(context.Background(), Request{
		System:   "You answer questions.",
		Messages: []Message{UserMessage("What is Go?")},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if resp.WantsToolUse() {
		t.Error("end_turn response should not want tool use")
	}
	if got := resp.FirstText(); got != "General knowledge answer" {
		t.Errorf("unexpected text: %q", got)
	}
	if resp.InputTokens != 10 || resp.OutputTokens != 5 {
		t.Errorf("unexpected usage: %d/%d", resp.InputTokens, resp.OutputTokens)
	}
}

func TestGenerateToolUseResponse(t *testing.T) {
	input := map[string]interface{}{"query": "lesson 4"}
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AnthropicResponse{
			Content: []AnthropicContent{
				{Type: "tool_use", ID: "toolu_1", Name: "search_course_content", Input: &input},
			},
			StopReason: "tool_use",
		})
	})

	resp, err := provider.Generate(context.Background(), Request{
		Messages: []Message{UserMessage("What is in lesson 4?")},
		Tools: []ToolDefinition{
			{Name: "search_course_content", Description: "search", Parameters: map[string]interface{}{"type": "object"}},
		},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !resp.WantsToolUse() {
		t.Fatal("expected tool-use response")
	}
	uses := resp.ToolUses()
	if len(uses) != 1 {
		t.Fatalf("expected 1 tool use, got %d", len(uses))
	}
	if uses[0].ID != "toolu_1" || uses[0].Name != "search_course_content" {
		t.Errorf("unexpected tool use: %+v", uses[0])
	}
	if uses[0].Input["query"] != "lesson 4" {
		t.Errorf("unexpected input: %v", uses[0].Input)
	}
	if got := resp.FirstText(); got != "" {
		t.Errorf("tool-only response should have empty text, got %q", got)
	}
}

func TestGenerateRequestShape(t *testing.T) {
	var captured AnthropicRequest
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(AnthropicResponse{
			Content:    []AnthropicContent{{Type: "text", Text: "ok"}},
			StopReason: "end_turn",
		})
	})

	toolInput := map[string]interface{}{"query": "q"}
	_, err := provider.Generate(context.Background(), Request{
		System: "policy text",
		Messages: []Message{
			UserMessage("question"),
			AssistantMessage(ToolUseBlock("toolu_1", "search_course_content", toolInput)),
			ToolResultsMessage(ToolErrorBlock("toolu_1", "Tool execution error: boom")),
		},
		Tools: []ToolDefinition{
			{Name: "search_course_content", Description: "search", Parameters: map[string]interface{}{"type": "object"}},
		},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if captured.System != "policy text" {
		t.Errorf("system not separated: %q", captured.System)
	}
	if captured.ToolChoice == nil || captured.ToolChoice.Type != "auto" {
		t.Errorf("expected tool_choice auto, got %+v", captured.ToolChoice)
	}
	if len(captured.Tools) != 1 || captured.Tools[0].Name != "search_course_content" {
		t.Errorf("tools missing from request: %+v", captured.Tools)
	}
	if len(captured.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[1].Role != "assistant" || captured.Messages[1].Content[0].Type != "tool_use" {
		t.Errorf("assistant tool_use message malformed: %+v", captured.Messages[1])
	}
	result := captured.Messages[2].Content[0]
	if captured.Messages[2].Role != "user" || result.Type != "tool_result" {
		t.Errorf("tool_result message malformed: %+v", captured.Messages[2])
	}
	if result.ToolUseID != "toolu_1" || !result.IsError {
		t.Errorf("tool_result fields malformed: %+v", result)
	}
}

func TestGenerateNoToolsOmitsToolChoice(t *testing.T) {
	var captured AnthropicRequest
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(AnthropicResponse{
			Content:    []AnthropicContent{{Type: "text", Text: "ok"}},
			StopReason: "end_turn",
		})
	})

	_, err := provider.Generate(context.Background(), Request{Messages: []Message{UserMessage("hi")}})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if captured.ToolChoice != nil {
		t.Errorf("tool_choice should be omitted without tools: %+v", captured.ToolChoice)
	}
	if len(captured.Tools) != 0 {
		t.Errorf("tools should be omitted: %+v", captured.Tools)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"type":"overloaded_error","message":"Overloaded"}}`))
	})

	_, err := provider.Generate(context.Background(), Request{Messages: []Message{UserMessage("hi")}})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestGenerateAPIErrorBody(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AnthropicResponse{
			Error: &AnthropicError{Type: "invalid_request_error", Message: "bad request"},
		})
	})

	_, err := provider.Generate(context.Background(), Request{Messages: []Message{UserMessage("hi")}})
	if err == nil {
		t.Fatal("expected error for error body")
	}
}

func TestBuildRequestRejectsUnknownBlockKind(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := provider.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Blocks: []Block{{Kind: "thinking"}}}},
	})
	if err == nil {
		t.Fatal("expected error for unknown block kind")
	}
}

func TestNewAnthropicProviderRequiresAPIKey(t *testing.T) {
	_, err := NewAnthropicProviderFromConfig(&config.LLMProviderConfig{Model: "m"})
	if err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestFirstTextSkipsToolUse(t *testing.T) {
	resp := &Response{Blocks: []Block{
		ToolUseBlock("id", "tool", nil),
		TextBlock("after tools"),
	}}
	if got := resp.FirstText(); got != "after tools" {
		t.Errorf("unexpected first text: %q", got)
	}

	empty := &Response{Blocks: []Block{ToolUseBlock("id", "tool", nil)}}
	if got := empty.FirstText(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
