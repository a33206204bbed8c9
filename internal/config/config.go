package config

import (
	"fmt"

	"github.com/go-playground/validator"

	"github.com/jprivillaso/family-tree-agent/internal/util"
)

// Retrieval modes supported by the agent.
const (
	ModeVector = "vector"
	ModeGraph  = "graph"
)

// AI providers supported by the agent.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config holds every runtime setting of the agent, resolved from the
// environment once at startup.
type Config struct {
	Provider       string `validate:"required,oneof=openai ollama"`
	OpenAIKey      string
	OpenAIBaseURL  string
	OllamaBaseURL  string
	ChatModel      string `validate:"required"`
	EmbeddingModel string `validate:"required"`

	Neo4jURL      string
	Neo4jDatabase string
	Neo4jUsername string
	Neo4jPassword string

	CorpusPath    string
	RetrievalMode string `validate:"required,oneof=vector graph"`

	RelevanceFloor     float64 `validate:"gte=-1,lte=1"`
	MaxTraversalDepth  int     `validate:"gte=1,lte=50"`
	AskTimeoutSeconds  int     `validate:"gte=1"`
	ContextTokenBudget int     `validate:"gte=0"`

	Debug bool
}

// Load resolves the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Provider:       util.GetEnvString("AI_PROVIDER", ProviderOllama),
		OpenAIKey:      util.GetEnvString("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  util.GetEnvString("OPENAI_BASE_URL", ""),
		OllamaBaseURL:  util.GetEnvString("OLLAMA_BASE_URL", "http://localhost:11434"),
		ChatModel:      util.GetEnvString("CHAT_MODEL", "llama3.1"),
		EmbeddingModel: util.GetEnvString("EMBEDDING_MODEL", "nomic-embed-text"),

		Neo4jURL:      util.GetEnvString("NEO4J_URL", "http://localhost:7474"),
		Neo4jDatabase: util.GetEnvString("NEO4J_DATABASE", "neo4j"),
		Neo4jUsername: util.GetEnvString("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: util.GetEnvString("NEO4J_PASSWORD", ""),

		CorpusPath:    util.GetEnvString("CORPUS_PATH", "data/people.json"),
		RetrievalMode: util.GetEnvString("RETRIEVAL_MODE", ModeVector),

		RelevanceFloor:     util.GetEnvFloat("RELEVANCE_FLOOR", 0.05),
		MaxTraversalDepth:  int(util.GetEnvNumeric("MAX_TRAVERSAL_DEPTH", 10)),
		AskTimeoutSeconds:  int(util.GetEnvNumeric("ASK_TIMEOUT_SECONDS", 45)),
		ContextTokenBudget: int(util.GetEnvNumeric("CONTEXT_TOKEN_BUDGET", 4096)),

		Debug: util.GetEnvBool("DEBUG", false),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.RetrievalMode == ModeVector && cfg.CorpusPath == "" {
		return nil, fmt.Errorf("invalid configuration: CORPUS_PATH is required in vector mode")
	}
	if cfg.RetrievalMode == ModeGraph && cfg.Neo4jURL == "" {
		return nil, fmt.Errorf("invalid configuration: NEO4J_URL is required in graph mode")
	}
	return cfg, nil
}
