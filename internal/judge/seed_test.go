package judge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmilosev/evalgate/internal/storage/inmem"
)

func TestEnsurePrompt_SeedsEmptyStore(t *testing.T) {
	store := inmem.NewPrompts(nil)

	prompt, err := EnsurePrompt(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, int64(1), prompt.Version)
	assert.Equal(t, DefaultTemplateName, prompt.Name)
	assert.True(t, prompt.IsActive)
}

func TestEnsurePrompt_KeepsExistingVersions(t *testing.T) {
	store := inmem.NewPrompts(nil)
	_, err := store.Create(context.Background(), "custom", "{{actual}}", "", true)
	require.NoError(t, err)

	prompt, err := EnsurePrompt(context.Background(), store)
	require.NoError(t, err)

	assert.Equal(t, "custom", prompt.Name)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
