package openai

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// AgentOpenAIClient implements the ai.Client capabilities against the OpenAI
// chat-completions and embeddings APIs, or any OpenAI-compatible endpoint.
//
// An AgentOpenAIClient should be created using NewAgentOpenAIClient.
type AgentOpenAIClient struct {
	chatModel      string
	embeddingModel string

	reqLock *semaphore.Weighted

	Client *openai.Client
}

// NewAgentOpenAIClientParams defines the configuration for creating a new
// AgentOpenAIClient.
//
// BaseURL may point at any OpenAI-compatible server; leave it empty for the
// hosted API. MaxConcurrentRequests bounds in-flight calls, defaulting to 1.
type NewAgentOpenAIClientParams struct {
	ChatModel      string
	EmbeddingModel string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

// NewAgentOpenAIClient creates and returns a new AgentOpenAIClient configured
// with the provided parameters.
//
// Example:
//
//	client := openai.NewAgentOpenAIClient(openai.NewAgentOpenAIClientParams{
//		ChatModel:      "gpt-4o-mini",
//		EmbeddingModel: "text-embedding-3-small",
//		ApiKey:         os.Getenv("OPENAI_API_KEY"),
//	})
func NewAgentOpenAIClient(
	params NewAgentOpenAIClientParams,
) *AgentOpenAIClient {
	options := []option.RequestOption{
		option.WithAPIKey(params.ApiKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	client := openai.NewClient(options...)

	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &AgentOpenAIClient{
		chatModel:      params.ChatModel,
		embeddingModel: params.EmbeddingModel,

		reqLock: semaphore.NewWeighted(maxConcurrent),

		Client: &client,
	}
}
