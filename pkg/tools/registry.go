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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ckarabay/lectern/pkg/llms"
	"github.com/ckarabay/lectern/pkg/observability"
	"github.com/ckarabay/lectern/pkg/registry"
)

type ToolRegistryError struct {
	Component string
	Action    string
	Message   string
	Err       error
}

func (e *ToolRegistryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Component, e.Action, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Component, e.Action, e.Message)
}

func NewToolRegistryError(component, action, message string, err error) *ToolRegistryError {
	return &ToolRegistryError{
		Component: component,
		Action:    action,
		Message:   message,
		Err:       err,
	}
}

// Registry dispatches tool calls by name and tracks retrieval provenance.
// Tool declarations are exposed in registration order. Dispatch itself is
// stateless: ExecuteTool returns the full Result and the caller records
// provenance via RecordSources, which lets parallel calls within a round
// be applied in request order.
//
// A registry serves one query at a time; concurrent queries need their own
// registry instances.
type Registry struct {
	*registry.BaseRegistry[Tool]

	mu          sync.Mutex
	lastSources []Source
}

func NewRegistry() *Registry {
	return &Registry{
		BaseRegistry: registry.NewBaseRegistry[Tool](),
	}
}

func (r *Registry) RegisterTool(tool Tool) error {
	name := tool.GetName()
	if name == "" {
		return NewToolRegistryError("Registry", "RegisterTool", "tool name cannot be empty", nil)
	}

	if err := r.Register(name, tool); err != nil {
		return NewToolRegistryError("Registry", "RegisterTool",
			fmt.Sprintf("failed to register tool %s", name), err)
	}
	return nil
}

// Definitions returns all tool declarations in registration order.
func (r *Registry) Definitions() []llms.ToolDefinition {
	tools := r.List()
	defs := make([]llms.ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		defs = append(defs, tool.GetInfo().ToDefinition())
	}
	return defs
}

// ExecuteTool routes a call to the named tool. An unknown name is not an
// error: it returns a descriptive result string the model can react to.
// Tool execution errors are returned as errors for the caller to flag.
// ExecuteTool does not touch provenance; callers pass Result.Sources to
// RecordSources once the round's ordering is known.
func (r *Registry) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (Result, error) {
	startTime := time.Now()

	tracer := observability.GetTracer("lectern.tools")
	ctx, span := tracer.Start(ctx, observability.SpanToolExecution,
		trace.WithAttributes(
			attribute.String(observability.AttrToolName, toolName),
		),
	)
	defer span.End()

	tool, exists := r.Get(toolName)
	if !exists {
		span.SetStatus(codes.Error, "tool not found")
		slog.Warn("Requested tool not registered", "tool", toolName)
		return Result{Content: fmt.Sprintf("Tool '%s' not found", toolName)}, nil
	}

	result, err := tool.Execute(ctx, args)
	duration := time.Since(startTime)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Int64("tool.duration_ms", duration.Milliseconds()))
		return Result{}, err
	}

	span.SetStatus(codes.Ok, "success")
	span.SetAttributes(
		attribute.Bool("tool.success", true),
		attribute.Int64("tool.duration_ms", duration.Milliseconds()),
	)
	slog.Debug("Tool executed", "tool", toolName, "duration_ms", duration.Milliseconds())

	return result, nil
}

// RecordSources replaces the recorded provenance. Empty lists are ignored
// so a sourceless execution never clobbers an earlier one.
func (r *Registry) RecordSources(sources []Source) {
	if len(sources) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSources = sources
}

// LastSources returns a copy of the provenance recorded by the most
// recent source-producing tool execution.
func (r *Registry) LastSources() []Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastSources == nil {
		return nil
	}
	out := make([]Source, len(r.lastSources))
	copy(out, r.lastSources)
	return out
}

// ResetSources clears recorded provenance. Called once per completed query.
func (r *Registry) ResetSources() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastSources = nil
}
