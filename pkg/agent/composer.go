package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/jprivillaso/family-tree-agent/pkg/ai"
)

// GenerationError reports a failed answer-composition call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Compose merges the question and the retrieved context into one constrained
// prompt and generates the final answer. Empty context short-circuits to the
// fixed no-context message instead of asking the model to improvise.
func Compose(
	ctx context.Context,
	generator ai.TextGenerator,
	question string,
	contextText string,
) (string, error) {
	if strings.TrimSpace(contextText) == "" {
		return noContextMessage, nil
	}

	prompt := fmt.Sprintf(AnswerPrompt, contextText, question, RefusalMessage)
	answer, err := generator.GenerateCompletion(ctx, prompt,
		ai.WithTemperature(0.2),
	)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	return strings.TrimSpace(answer), nil
}
