package judge

import (
	"context"
	"fmt"

	"github.com/nmilosev/evalgate/internal/domain"
	"github.com/nmilosev/evalgate/internal/storage"
)

// DefaultCriteria is used when a request carries no custom criteria.
const DefaultCriteria = "The model output should be semantically equivalent to the expected answer. Minor differences in wording, formatting or phrasing are acceptable as long as the meaning matches."

// DefaultTemplateName and DefaultTemplate ship as the version-1 seed of the
// judge prompt store.
const DefaultTemplateName = "default-semantic-judge"

const DefaultTemplate = `You are an impartial evaluation judge. Judge whether a model's output satisfies the evaluation criteria, given the expected answer.

Criteria: {{criteria}}

Expected answer:
{{expected}}

Actual model output:
{{actual}}

Respond with "Verdict: PASS" or "Verdict: FAIL" on the first line, followed by 2-3 sentences explaining your reasoning.`

const DefaultTemplateDescription = "Built-in semantic equivalence judge prompt"

// EnsurePrompt seeds the store with the built-in template when it holds no
// versions yet, so the service never starts without an active judge prompt.
func EnsurePrompt(ctx context.Context, store storage.PromptStore) (*domain.JudgePromptVersion, error) {
	prompts, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list judge prompts: %w", err)
	}
	if len(prompts) > 0 {
		return store.GetActive(ctx)
	}
	return store.Create(ctx, DefaultTemplateName, DefaultTemplate, DefaultTemplateDescription, true)
}
