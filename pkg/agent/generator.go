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
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ckarabay/lectern/pkg/llms"
	"github.com/ckarabay/lectern/pkg/observability"
	"github.com/ckarabay/lectern/pkg/tools"
)

// ToolExecutor runs a named tool and returns its full result. A nil error
// with descriptive content is how soft failures (unknown tool, empty
// search) reach the model. RecordSources receives each call's provenance
// in request order once a round completes.
type ToolExecutor interface {
	ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (tools.Result, error)
	RecordSources(sources []tools.Source)
}

// Generator drives the bounded tool-use loop against an LLM provider.
// Each query makes at most maxRounds+1 model calls: the loop continues
// only while the model asks for tools, rounds remain, and an executor is
// available. Tools stay declared on every call so the model can chain
// lookups, and the final answer is the first text block of the last
// response.
type Generator struct {
	client       llms.Provider
	systemPrompt string
	maxRounds    int
}

func NewGenerator(client llms.Provider, systemPrompt string, maxRounds int) *Generator {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	if maxRounds <= 0 {
		maxRounds = 2
	}
	return &Generator{
		client:       client,
		systemPrompt: systemPrompt,
		maxRounds:    maxRounds,
	}
}

// Generate answers a query, optionally with conversation history and
// tool access. Model call failures are fatal; individual tool failures
// are fed back to the model as error-flagged results.
func (g *Generator) Generate(ctx context.Context, query, history string, toolDefs []llms.ToolDefinition, executor ToolExecutor) (string, error) {
	tracer := observability.GetTracer("lectern.agent")
	ctx, span := tracer.Start(ctx, observability.SpanGenerate,
		trace.WithAttributes(
			attribute.String(observability.AttrLLMModel, g.client.GetModelName()),
		),
	)
	defer span.End()

	system := g.systemPrompt
	if history != "" {
		system = fmt.Sprintf("%s\n\nPrevious conversation:\n%s", g.systemPrompt, history)
	}

	messages := []llms.Message{llms.UserMessage(query)}

	response, err := g.call(ctx, system, messages, toolDefs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	rounds := 0
	for response.WantsToolUse() && rounds < g.maxRounds && executor != nil {
		rounds++

		messages = append(messages, llms.AssistantMessage(response.Blocks...))

		results := g.executeToolRound(ctx, response.ToolUses(), executor)
		if len(results) == 0 {
			break
		}
		messages = append(messages, llms.ToolResultsMessage(results...))

		response, err = g.call(ctx, system, messages, toolDefs)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return "", err
		}
	}

	span.SetAttributes(attribute.Int("agent.tool_rounds", rounds))
	span.SetStatus(codes.Ok, "success")

	return response.FirstText(), nil
}

func (g *Generator) call(ctx context.Context, system string, messages []llms.Message, toolDefs []llms.ToolDefinition) (*llms.Response, error) {
	tracer := observability.GetTracer("lectern.agent")
	ctx, span := tracer.Start(ctx, observability.SpanLLMRequest)
	defer span.End()

	response, err := g.client.Generate(ctx, llms.Request{
		System:   system,
		Messages: messages,
		Tools:    toolDefs,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	span.SetAttributes(
		attribute.Int(observability.AttrTokensInput, response.InputTokens),
		attribute.Int(observability.AttrTokensOutput, response.OutputTokens),
	)
	span.SetStatus(codes.Ok, "success")
	return response, nil
}

// executeToolRound runs every tool call of one assistant turn in
// parallel and returns one result block per call, in request order.
// Failures never abort siblings: errors and panics become error-flagged
// result blocks the model sees on the next call. Provenance is applied
// after the round in request order, so when several calls produce
// sources the final request's sources win deterministically.
func (g *Generator) executeToolRound(ctx context.Context, uses []llms.Block, executor ToolExecutor) []llms.Block {
	if len(uses) == 0 {
		return nil
	}

	results := make([]llms.Block, len(uses))
	sources := make([][]tools.Source, len(uses))

	var group errgroup.Group
	for i, use := range uses {
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Tool execution panicked", "tool", use.Name, "panic", r)
					results[i] = llms.ToolErrorBlock(use.ID, fmt.Sprintf("Tool execution error: %v", r))
				}
			}()

			result, execErr := executor.ExecuteTool(ctx, use.Name, use.Input)
			if execErr != nil {
				results[i] = llms.ToolErrorBlock(use.ID, fmt.Sprintf("Tool execution error: %s", execErr))
				return nil
			}
			results[i] = llms.ToolResultBlock(use.ID, result.Content)
			sources[i] = result.Sources
			return nil
		})
	}
	// Goroutines only report nil; errors are encoded in the blocks.
	_ = group.Wait()

	for _, s := range sources {
		if len(s) > 0 {
			executor.RecordSources(s)
		}
	}

	return results
}
