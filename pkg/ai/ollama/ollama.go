package ollama

import (
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// AgentOllamaClient implements the ai.Client capabilities against a locally
// hosted Ollama server.
type AgentOllamaClient struct {
	chatModel      string
	embeddingModel string

	reqLock *semaphore.Weighted

	Client *api.Client
}

// NewAgentOllamaClientParams contains configuration options for creating a
// new AgentOllamaClient.
type NewAgentOllamaClientParams struct {
	ChatModel      string
	EmbeddingModel string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewAgentOllamaClient creates a new Ollama-based client connecting to the
// server at BaseURL (or the Ollama default if empty).
func NewAgentOllamaClient(
	params NewAgentOllamaClientParams,
) (*AgentOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)
	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := http.DefaultClient
	if params.ApiKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{
					"Authorization": "Bearer " + params.ApiKey,
				},
				rt: http.DefaultTransport,
			},
		}
	}

	maxConcurrent := params.MaxConcurrentRequests
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &AgentOllamaClient{
		chatModel:      params.ChatModel,
		embeddingModel: params.EmbeddingModel,

		reqLock: semaphore.NewWeighted(maxConcurrent),

		Client: api.NewClient(u, httpClient),
	}, nil
}
