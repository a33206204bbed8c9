package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jprivillaso/family-tree-agent/internal/config"
	"github.com/jprivillaso/family-tree-agent/pkg/ai"
	"github.com/jprivillaso/family-tree-agent/pkg/neo4j"
)

// fakeAI implements ai.Client with pluggable behavior per call.
type fakeAI struct {
	calls atomic.Int64

	completion func(prompt string) (string, error)
	embed      func(input []byte) ([]float32, error)
	batchErr   error
}

func (f *fakeAI) GenerateCompletion(_ context.Context, prompt string, _ ...ai.GenerateOption) (string, error) {
	f.calls.Add(1)
	if f.completion == nil {
		return "", errors.New("no completion configured")
	}
	return f.completion(prompt)
}

func (f *fakeAI) GenerateEmbedding(_ context.Context, input []byte) ([]float32, error) {
	f.calls.Add(1)
	if f.embed == nil {
		return nil, errors.New("no embedder configured")
	}
	return f.embed(input)
}

func (f *fakeAI) GenerateEmbeddings(ctx context.Context, inputs [][]byte) ([][]float32, error) {
	f.calls.Add(1)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([][]float32, len(inputs))
	for i, input := range inputs {
		vec, err := f.GenerateEmbedding(ctx, input)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func testConfig(mode string) *config.Config {
	return &config.Config{
		Provider:           config.ProviderOllama,
		ChatModel:          "test-chat",
		EmbeddingModel:     "test-embed",
		RetrievalMode:      mode,
		RelevanceFloor:     0.05,
		MaxTraversalDepth:  10,
		AskTimeoutSeconds:  5,
		ContextTokenBudget: 0,
	}
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.json")
	content := `[
		{"name": "Alice", "birth_date": "1950-01-01", "relationships": {"children": ["Bob"]}},
		{"name": "Bob", "relationships": {"parents": ["Alice"]}}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

func TestDegradedMode_Isolation(t *testing.T) {
	cfg := testConfig(config.ModeVector)
	cfg.CorpusPath = filepath.Join(t.TempDir(), "missing.json")

	client := &fakeAI{}
	a := New(context.Background(), NewParams{Config: cfg, AIClient: client})

	health := a.Health()
	if health.Status != StatusDegraded {
		t.Fatalf("Health().Status = %v, want StatusDegraded", health.Status)
	}
	if health.Detail == "" {
		t.Fatalf("degraded health must carry a reason")
	}

	for i := 0; i < 3; i++ {
		answer := a.Ask(context.Background(), "Who is Alice?")
		if !strings.HasPrefix(answer, "service unavailable: ") {
			t.Fatalf("Ask() = %q, want unavailable message", answer)
		}
	}
	if got := client.calls.Load(); got != 0 {
		t.Fatalf("degraded Ask made %d collaborator calls, want 0", got)
	}
}

func TestVectorPath_AnswersFromRetrievedContext(t *testing.T) {
	cfg := testConfig(config.ModeVector)
	cfg.CorpusPath = writeCorpus(t)

	var capturedPrompt string
	client := &fakeAI{
		embed: func(input []byte) ([]float32, error) {
			// Alice-ish texts and the question share a direction.
			if strings.Contains(string(input), "Alice") {
				return []float32{1, 0}, nil
			}
			return []float32{0, 1}, nil
		},
		completion: func(prompt string) (string, error) {
			capturedPrompt = prompt
			return "Alice is Bob's parent.", nil
		},
	}

	a := New(context.Background(), NewParams{Config: cfg, AIClient: client})
	if a.Health().Status != StatusReady {
		t.Fatalf("agent not ready: %+v", a.Health())
	}

	answer := a.Ask(context.Background(), "Who is the parent of Alice's child?")
	if !strings.Contains(answer, "Alice") {
		t.Fatalf("Ask() = %q, want an answer naming Alice", answer)
	}
	if !strings.Contains(capturedPrompt, "Name: Alice.") {
		t.Fatalf("composed prompt missing retrieved context:\n%s", capturedPrompt)
	}
}

func TestVectorPath_RelevanceFloorYieldsNoContext(t *testing.T) {
	cfg := testConfig(config.ModeVector)
	cfg.CorpusPath = writeCorpus(t)
	cfg.RelevanceFloor = 0.5

	client := &fakeAI{
		embed: func(input []byte) ([]float32, error) {
			if strings.HasPrefix(string(input), "Name:") {
				return []float32{1, 0}, nil
			}
			return []float32{0, 1}, nil // question orthogonal to every document
		},
		completion: func(prompt string) (string, error) {
			t.Errorf("composer must not generate when context is empty")
			return "", nil
		},
	}

	a := New(context.Background(), NewParams{Config: cfg, AIClient: client})
	answer := a.Ask(context.Background(), "What is the capital of France?")
	if answer != noContextMessage {
		t.Fatalf("Ask() = %q, want %q", answer, noContextMessage)
	}
}

func TestVectorPath_BatchEmbeddingFallback(t *testing.T) {
	cfg := testConfig(config.ModeVector)
	cfg.CorpusPath = writeCorpus(t)

	singles := 0
	client := &fakeAI{
		batchErr: errors.New("batch endpoint unsupported"),
		embed: func(input []byte) ([]float32, error) {
			singles++
			return []float32{1, 0}, nil
		},
	}

	a := New(context.Background(), NewParams{Config: cfg, AIClient: client})
	if a.Health().Status != StatusReady {
		t.Fatalf("agent not ready after batch fallback: %+v", a.Health())
	}
	if singles != 2 {
		t.Fatalf("fallback made %d single embedding calls, want 2", singles)
	}
}

func graphServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
}

func TestGraphPath_EndToEnd(t *testing.T) {
	// Corpus of two entities: Alice PARENT_OF Bob. The store returns Alice's
	// node for the synthesized parent lookup.
	server := graphServer(t, `{
		"results": [{
			"columns": ["parent"],
			"data": [{"row": [{"name": "Alice", "birth_date": "1950-01-01"}]}]
		}],
		"errors": []
	}`)
	defer server.Close()

	cfg := testConfig(config.ModeGraph)
	cfg.Neo4jURL = server.URL

	client := &fakeAI{
		completion: func(prompt string) (string, error) {
			if strings.Contains(prompt, "Cypher:") {
				return "```cypher\nMATCH (parent:Person)-[:PARENT_OF]->(p:Person {name: 'Bob'}) RETURN parent\n```", nil
			}
			if !strings.Contains(prompt, "Alice (born: 1950-01-01)") {
				t.Errorf("answer prompt missing narrated context:\n%s", prompt)
			}
			return "Alice is the parent of Bob.", nil
		},
	}

	a := New(context.Background(), NewParams{
		Config:      cfg,
		AIClient:    client,
		GraphClient: neo4j.NewClient(neo4j.NewClientParams{BaseURL: server.URL}),
	})
	if a.Health().Status != StatusReady {
		t.Fatalf("agent not ready: %+v", a.Health())
	}

	answer := a.Ask(context.Background(), "Who is the parent of Bob?")
	if !strings.Contains(answer, "Alice") {
		t.Fatalf("Ask() = %q, want an answer containing Alice", answer)
	}
}

func TestGraphPath_ComposerFailureFallsBackToNarration(t *testing.T) {
	server := graphServer(t, `{
		"results": [{
			"columns": ["parent"],
			"data": [{"row": [{"name": "Alice", "birth_date": "1950-01-01"}]}]
		}],
		"errors": []
	}`)
	defer server.Close()

	cfg := testConfig(config.ModeGraph)
	cfg.Neo4jURL = server.URL

	client := &fakeAI{
		completion: func(prompt string) (string, error) {
			if strings.Contains(prompt, "Cypher:") {
				return "MATCH (parent:Person)-[:PARENT_OF]->(p:Person {name: 'Bob'}) RETURN parent", nil
			}
			return "", errors.New("model overloaded")
		},
	}

	a := New(context.Background(), NewParams{
		Config:      cfg,
		AIClient:    client,
		GraphClient: neo4j.NewClient(neo4j.NewClientParams{BaseURL: server.URL}),
	})

	answer := a.Ask(context.Background(), "Who is the parent of Bob?")
	if answer != "Alice (born: 1950-01-01)" {
		t.Fatalf("Ask() = %q, want raw narration fallback", answer)
	}
}

func TestGraphPath_UnreachableStoreDegrades(t *testing.T) {
	cfg := testConfig(config.ModeGraph)
	cfg.Neo4jURL = "http://127.0.0.1:1"

	a := New(context.Background(), NewParams{
		Config:      cfg,
		AIClient:    &fakeAI{},
		GraphClient: neo4j.NewClient(neo4j.NewClientParams{BaseURL: cfg.Neo4jURL}),
	})

	if a.Health().Status != StatusDegraded {
		t.Fatalf("Health().Status = %v, want StatusDegraded", a.Health().Status)
	}
	if !strings.Contains(a.Health().Detail, "graph store unreachable") {
		t.Fatalf("Health().Detail = %q, want unreachable reason", a.Health().Detail)
	}
}

func TestGraphPath_ExecutionErrorSurfacesAsMessage(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 { // connectivity probe succeeds
			w.Write([]byte(`{"results": [{"columns": ["1"], "data": [{"row": [1]}]}], "errors": []}`))
			return
		}
		w.Write([]byte(`{"results": [], "errors": [{"code": "Neo.ClientError.Statement.SyntaxError", "message": "bad"}]}`))
	}))
	defer server.Close()

	cfg := testConfig(config.ModeGraph)
	cfg.Neo4jURL = server.URL

	client := &fakeAI{
		completion: func(prompt string) (string, error) {
			return "MATCH bogus", nil
		},
	}

	a := New(context.Background(), NewParams{
		Config:      cfg,
		AIClient:    client,
		GraphClient: neo4j.NewClient(neo4j.NewClientParams{BaseURL: server.URL}),
	})

	answer := a.Ask(context.Background(), "Who is Alice?")
	if !strings.HasPrefix(answer, "failed to answer question: ") {
		t.Fatalf("Ask() = %q, want failure message", answer)
	}
}

func TestCompose(t *testing.T) {
	t.Run("empty context short-circuits", func(t *testing.T) {
		got, err := Compose(context.Background(), &fakeAI{}, "anything", "  ")
		if err != nil {
			t.Fatalf("Compose() error = %v", err)
		}
		if got != noContextMessage {
			t.Fatalf("Compose() = %q, want %q", got, noContextMessage)
		}
	})

	t.Run("generation failure wraps GenerationError", func(t *testing.T) {
		client := &fakeAI{
			completion: func(string) (string, error) {
				return "", errors.New("boom")
			},
		}
		_, err := Compose(context.Background(), client, "q", "some context")
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("Compose() error = %T, want *GenerationError", err)
		}
	})

	t.Run("answer is trimmed", func(t *testing.T) {
		client := &fakeAI{
			completion: func(string) (string, error) {
				return "  the answer \n", nil
			},
		}
		got, err := Compose(context.Background(), client, "q", "ctx")
		if err != nil {
			t.Fatalf("Compose() error = %v", err)
		}
		if got != "the answer" {
			t.Fatalf("Compose() = %q, want trimmed answer", got)
		}
	})
}

func TestAsk_RecoversPipelinePanic(t *testing.T) {
	cfg := testConfig(config.ModeVector)
	cfg.CorpusPath = writeCorpus(t)

	client := &fakeAI{
		embed: func(input []byte) ([]float32, error) {
			if strings.HasPrefix(string(input), "Name:") {
				return []float32{1, 0}, nil
			}
			panic("embedder corrupted")
		},
	}

	a := New(context.Background(), NewParams{Config: cfg, AIClient: client})
	answer := a.Ask(context.Background(), "Who is Alice?")
	if !strings.HasPrefix(answer, "failed to answer question: ") {
		t.Fatalf("Ask() = %q, want failure message, not a crash", answer)
	}
	if fmt.Sprintf("%v", a.Health().Status) != "ready" {
		t.Fatalf("a panic during ask must not change agent state")
	}
}
