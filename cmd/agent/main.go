package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jprivillaso/family-tree-agent/internal/config"
	"github.com/jprivillaso/family-tree-agent/internal/util"
	"github.com/jprivillaso/family-tree-agent/pkg/agent"
	"github.com/jprivillaso/family-tree-agent/pkg/ai"
	"github.com/jprivillaso/family-tree-agent/pkg/ai/ollama"
	"github.com/jprivillaso/family-tree-agent/pkg/ai/openai"
	"github.com/jprivillaso/family-tree-agent/pkg/logger"
	"github.com/jprivillaso/family-tree-agent/pkg/logger/console"
	"github.com/jprivillaso/family-tree-agent/pkg/neo4j"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuration error", "error", err)
	}

	aiClient, err := newAIClient(cfg)
	if err != nil {
		logger.Fatal("ai client error", "error", err)
	}

	var graphClient *neo4j.Client
	if cfg.RetrievalMode == config.ModeGraph {
		graphClient = neo4j.NewClient(neo4j.NewClientParams{
			BaseURL:  cfg.Neo4jURL,
			Database: cfg.Neo4jDatabase,
			Username: cfg.Neo4jUsername,
			Password: cfg.Neo4jPassword,
		})
	}

	ctx := context.Background()
	a := agent.New(ctx, agent.NewParams{
		Config:      cfg,
		AIClient:    aiClient,
		GraphClient: graphClient,
	})

	repl(ctx, a)
}

func newAIClient(cfg *config.Config) (ai.Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewAgentOpenAIClient(openai.NewAgentOpenAIClientParams{
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: cfg.EmbeddingModel,
			BaseURL:        cfg.OpenAIBaseURL,
			ApiKey:         cfg.OpenAIKey,
		}), nil
	case config.ProviderOllama:
		return ollama.NewAgentOllamaClient(ollama.NewAgentOllamaClientParams{
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: cfg.EmbeddingModel,
			BaseURL:        cfg.OllamaBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// repl reads questions from stdin and prints answers until EOF or "exit".
// It keeps serving in degraded mode; every question then receives the
// unavailable message.
func repl(ctx context.Context, a *agent.Agent) {
	health := a.Health()
	fmt.Printf("family-tree-agent [%s] - ask a question, or 'health' / 'exit'\n", health.Status)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		case "health":
			h := a.Health()
			fmt.Printf("%s: %s\n", h.Status, h.Detail)
		default:
			fmt.Println(a.Ask(ctx, line))
		}
	}
}
