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

// Command lectern answers questions about course materials through a
// tool-using LLM loop backed by a vector store.
//
// Usage:
//
//	lectern query "What does lesson 1 of the MCP course cover?"
//	lectern query --config config.yaml "Show me the outline of Python Basics"
//	lectern version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ckarabay/lectern/pkg/agent"
	"github.com/ckarabay/lectern/pkg/config"
	"github.com/ckarabay/lectern/pkg/embedder"
	"github.com/ckarabay/lectern/pkg/llms"
	"github.com/ckarabay/lectern/pkg/logger"
	"github.com/ckarabay/lectern/pkg/observability"
	"github.com/ckarabay/lectern/pkg/rag"
	"github.com/ckarabay/lectern/pkg/tools"
	"github.com/ckarabay/lectern/pkg/vector"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Query   QueryCmd   `cmd:"" help:"Ask a question about the indexed course materials."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple or verbose)." default:"simple"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("lectern version %s\n", version)
	return nil
}

// QueryCmd runs one question through the assistant.
type QueryCmd struct {
	Question []string `arg:"" help:"The question to ask."`

	History string `help:"Previous conversation to carry as context."`
	Observe bool   `help:"Enable OTLP tracing to localhost:4317."`
}

func (c *QueryCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Interrupted, shutting down...")
		cancel()
	}()

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return err
	}

	if c.Observe {
		tracing := observability.TracerConfig{Enabled: true, EndpointURL: "localhost:4317"}
		if cfg.Tracing != nil {
			tracing = *cfg.Tracing
			tracing.Enabled = true
		}
		if _, err := observability.InitGlobalTracer(ctx, tracing); err != nil {
			slog.Warn("Failed to initialize tracing", "error", err)
		}
	}

	client, err := llms.NewAnthropicProviderFromConfig(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	defer client.Close()

	emb, err := embedder.NewEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	defer emb.Close()

	provider, err := vector.NewProvider(cfg.VectorStore)
	if err != nil {
		return fmt.Errorf("failed to create vector provider: %w", err)
	}
	defer provider.Close()

	store := rag.NewVectorStore(provider, emb, cfg.Store)

	registry := tools.NewRegistry()
	if err := registry.RegisterTool(tools.NewCourseSearchTool(store)); err != nil {
		return err
	}
	if err := registry.RegisterTool(tools.NewCourseOutlineTool(store)); err != nil {
		return err
	}

	assistant := agent.NewAssistant(client, registry, cfg.Assistant)

	question := strings.Join(c.Question, " ")
	answer, sources, err := assistant.Answer(ctx, question, c.History)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(answer)
	if len(sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range sources {
			if src.URL != "" {
				fmt.Printf("  - %s (%s)\n", src.Title, src.URL)
			} else {
				fmt.Printf("  - %s\n", src.Title)
			}
		}
	}
	return nil
}

// loadConfig reads the config file when given one, otherwise falls back
// to defaults driven by ANTHROPIC_API_KEY.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadConfig(path)
	}

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("no config file given and ANTHROPIC_API_KEY is not set")
	}
	return config.DefaultConfig(apiKey), nil
}

func main() {
	_ = config.LoadEnvFiles()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("lectern"),
		kong.Description("lectern - course material assistant with tool-using retrieval"),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}

	output := os.Stderr
	if cli.LogFile != "" {
		file, cleanup, err := logger.OpenLogFile(cli.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		output = file
	}
	logger.Init(level, output, cli.LogFormat)

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
