package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elmash/duck-chat/internal/testutil"
)

func TestModels_List(t *testing.T) {
	srv := testutil.ChatScript{}.Server(t)
	pointAtServer(t, srv)

	out, err := execute(t, "", "models")
	require.NoError(t, err)

	assert.Contains(t, out, "* gpt-4o-mini")
	assert.Contains(t, out, "claude-3-haiku")
	assert.Contains(t, out, "Claude 3 Haiku")
	assert.Contains(t, out, "Llama")
	assert.Contains(t, out, "Mixtral")
	assert.Contains(t, out, "Pass --model")
}

func TestModels_MarkerFollowsConfiguredDefault(t *testing.T) {
	srv := testutil.ChatScript{}.Server(t)
	pointAtServer(t, srv)
	t.Setenv("DUCKCHAT_DEFAULT_MODEL", "mixtral")

	out, err := execute(t, "", "models")
	require.NoError(t, err)

	assert.Contains(t, out, "* mixtral")
	assert.Contains(t, out, "  gpt-4o-mini")
}
