// Command agentops is a multi-agent debugging assistant for a job
// API: it plans tasks for each request, routes them through
// specialized agents, and answers with formatted responses backed by
// long-term memory.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"agentops/internal/agents"
	"agentops/internal/config"
	"agentops/internal/decision"
	"agentops/internal/embedding"
	"agentops/internal/jobapi"
	"agentops/internal/kb"
	"agentops/internal/llm"
	"agentops/internal/logging"
	"agentops/internal/memory"
	"agentops/internal/workflow"
)

var (
	verbose   bool
	workspace string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "agentops",
	Short: "Multi-agent debugging assistant for the job API",
	Long: `agentops coordinates four specialized agents over a job API:
an operator that executes API calls, a debugger that analyzes
failures, a knowledge assistant backed by a knowledge base, and a
response synthesizer that formats the final answer.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return logging.Initialize(workspace)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// runtime bundles everything a command needs to process turns.
type runtime struct {
	cfg    *config.Config
	engine *workflow.Engine
	mem    *memory.Service
	base   *kb.Base
}

// buildRuntime wires the engine from configuration: decision backend,
// job API client, knowledge base, and the optional memory layer.
func buildRuntime() (*runtime, error) {
	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, err
	}

	var mem *memory.Service
	if cfg.Memory.Enabled {
		var engine embedding.Engine
		if cfg.Memory.EmbedProvider != "" {
			engine, err = embedding.NewEngine(embedding.Config{
				Provider:       cfg.Memory.EmbedProvider,
				OllamaEndpoint: cfg.Memory.OllamaEndpoint,
				OllamaModel:    cfg.Memory.OllamaModel,
				GenAIAPIKey:    cfg.Memory.GenAIAPIKey,
				GenAIModel:     cfg.Memory.GenAIModel,
			})
			if err != nil {
				logger.Warn("embedding engine unavailable, memory will use keyword search", zap.Error(err))
				engine = nil
			}
		}
		store, err := memory.OpenVectorStore(cfg.Memory.Dir, engine)
		if err != nil {
			logger.Warn("memory store unavailable, continuing without long-term memory", zap.Error(err))
		} else {
			mem = memory.NewService(store)
		}
	}

	base := kb.Default()
	if cfg.KB.Path != "" {
		if err := base.Load(cfg.KB.Path); err != nil {
			logger.Warn("knowledge base file unusable, using builtin entries", zap.Error(err))
		}
	}

	var backend decision.Backend
	if cfg.LLM.UseMocks || cfg.LLM.APIKey == "" {
		backend = decision.NewRuleBackend()
		logger.Info("using deterministic decision backend")
	} else {
		client := llm.NewChatClient(llm.ChatConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		})
		backend = decision.NewLLMBackend(client)
		logger.Info("using model decision backend", zap.String("model", cfg.LLM.Model))
	}

	api := jobapi.NewMockClient()
	engine := workflow.New(backend,
		agents.NewOperator(api),
		agents.NewDebugger(mem),
		agents.NewKnowledge(base, mem),
		agents.NewSynthesizer(mem),
	)

	return &runtime{cfg: cfg, engine: engine, mem: mem, base: base}, nil
}

func (r *runtime) close() {
	if r.mem != nil {
		if err := r.mem.Close(); err != nil {
			logger.Warn("failed to close memory store", zap.Error(err))
		}
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "Workspace directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
