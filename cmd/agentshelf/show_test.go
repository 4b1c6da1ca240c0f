package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
)

func TestRunShow(t *testing.T) {
	loader := newTestLoader(t, testAgents, testCommands)

	tests := []struct {
		name          string
		kind          catalog.Kind
		entry         string
		expected      string
		expectedError string
	}{
		{
			name:     "agent by frontmatter name",
			kind:     catalog.Agent,
			entry:    "code-reviewer",
			expected: testAgents["reviewer.md"],
		},
		{
			name:     "agent by filename fallback",
			kind:     catalog.Agent,
			entry:    "zeta",
			expected: testAgents["zeta.md"],
		},
		{
			name:     "command without slash",
			kind:     catalog.Command,
			entry:    "review-pr",
			expected: testCommands["review-pr.md"],
		},
		{
			name:     "command with slash",
			kind:     catalog.Command,
			entry:    "/deploy",
			expected: testCommands["deploy.md"],
		},
		{
			name:          "unknown agent",
			kind:          catalog.Agent,
			entry:         "reviewer",
			expectedError: "agent 'reviewer' not found",
		},
		{
			name:          "unknown command",
			kind:          catalog.Command,
			entry:         "ship",
			expectedError: "command '/ship' not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runShow(context.Background(), &buf, loader, tt.kind, tt.entry)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Empty(t, buf.String())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestRunShow_DirectoryUnavailable(t *testing.T) {
	loader, err := catalog.NewLoader(catalog.WithAgentsDir(t.TempDir() + "/missing"))
	require.NoError(t, err)

	err = runShow(context.Background(), &bytes.Buffer{}, loader, catalog.Agent, "code-reviewer")
	require.Error(t, err)
	assert.True(t, catalog.IsDirectoryUnavailable(err))
}
