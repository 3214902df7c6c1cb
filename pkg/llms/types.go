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

import "context"

// Role of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// BlockKind discriminates the content block variants. The set is closed:
// every consumer switches exhaustively and treats unknown kinds as an error.
type BlockKind string

const (
	// BlockText carries assistant or user text (Text field).
	BlockText BlockKind = "text"

	// BlockToolUse is a model request to invoke a tool (ID, Name, Input).
	BlockToolUse BlockKind = "tool_use"

	// BlockToolResult carries a tool outcome back to the model
	// (ToolUseID, Content, IsError).
	BlockToolResult BlockKind = "tool_result"
)

// Block is a single content block. Kind selects which fields are meaningful.
type Block struct {
	Kind BlockKind

	// BlockText
	Text string

	// BlockToolUse
	ID    string
	Name  string
	Input map[string]interface{}

	// BlockToolResult
	ToolUseID string
	Content   string
	IsError   bool
}

func TextBlock(text string) Block {
	return Block{Kind: BlockText, Text: text}
}

func ToolUseBlock(id, name string, input map[string]interface{}) Block {
	return Block{Kind: BlockToolUse, ID: id, Name: name, Input: input}
}

func ToolResultBlock(toolUseID, content string) Block {
	return Block{Kind: BlockToolResult, ToolUseID: toolUseID, Content: content}
}

// ToolErrorBlock marks a tool result as failed so the model can adapt.
func ToolErrorBlock(toolUseID, content string) Block {
	return Block{Kind: BlockToolResult, ToolUseID: toolUseID, Content: content, IsError: true}
}

// Message is one turn of the conversation.
type Message struct {
	Role   Role
	Blocks []Block
}

func UserMessage(text string) Message {
	return Message{Role: RoleUser, Blocks: []Block{TextBlock(text)}}
}

func AssistantMessage(blocks ...Block) Message {
	return Message{Role: RoleAssistant, Blocks: blocks}
}

func ToolResultsMessage(blocks ...Block) Message {
	return Message{Role: RoleUser, Blocks: blocks}
}

// ToolDefinition describes a callable tool in the provider's wire shape.
// Parameters is a JSON schema object ({"type": "object", ...}).
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// StopReason reports why the model stopped generating.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopToolUse   StopReason = "tool_use"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a single non-streaming model response.
type Response struct {
	Blocks       []Block
	StopReason   StopReason
	InputTokens  int
	OutputTokens int
}

// WantsToolUse reports whether the model stopped to request tool execution.
func (r *Response) WantsToolUse() bool {
	return r.StopReason == StopToolUse
}

// ToolUses returns the tool-use blocks in response order.
func (r *Response) ToolUses() []Block {
	var uses []Block
	for _, b := range r.Blocks {
		if b.Kind == BlockToolUse {
			uses = append(uses, b)
		}
	}
	return uses
}

// FirstText returns the text of the first text block, or the empty string
// when the response carries none.
func (r *Response) FirstText() string {
	for _, b := range r.Blocks {
		if b.Kind == BlockText {
			return b.Text
		}
	}
	return ""
}

// Request is a single model call.
type Request struct {
	System   string
	Messages []Message
	Tools    []ToolDefinition
}

// Provider generates model responses.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	GetModelName() string
	Close() error
}
