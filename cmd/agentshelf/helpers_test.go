package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
)

// newTestLoader writes the given agent and command documents into temporary
// directories and returns a loader reading them
func newTestLoader(t *testing.T, agents, commands map[string]string, opts ...catalog.Option) *catalog.Loader {
	t.Helper()

	agentsDir := t.TempDir()
	commandsDir := t.TempDir()
	for name, content := range agents {
		require.NoError(t, os.WriteFile(filepath.Join(agentsDir, name), []byte(content), 0644))
	}
	for name, content := range commands {
		require.NoError(t, os.WriteFile(filepath.Join(commandsDir, name), []byte(content), 0644))
	}

	opts = append([]catalog.Option{catalog.WithAgentsDir(agentsDir), catalog.WithCommandsDir(commandsDir)}, opts...)
	loader, err := catalog.NewLoader(opts...)
	require.NoError(t, err)
	return loader
}

var (
	testAgents = map[string]string{
		"reviewer.md": "---\nname: code-reviewer\ndescription: >- Reviews pull requests\nmodel: opus\ntools: [Read, Grep]\n---\nReview carefully.\n",
		"zeta.md":     "---\ndescription: Last one\n---\n",
	}
	testCommands = map[string]string{
		"review-pr.md": "---\ndescription: Review a PR\nallowed-tools: [Bash, Read]\n---\nReview $ARGUMENTS\n",
		"deploy.md":    "# Deploy\n\nNo frontmatter here.\n",
	}
)
