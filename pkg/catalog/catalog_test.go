package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func newTestLoader(t *testing.T, opts ...Option) (*Loader, string, string) {
	t.Helper()
	agentsDir := t.TempDir()
	commandsDir := t.TempDir()

	opts = append([]Option{WithAgentsDir(agentsDir), WithCommandsDir(commandsDir)}, opts...)
	loader, err := NewLoader(opts...)
	require.NoError(t, err)

	return loader, agentsDir, commandsDir
}

func TestLoader_Agents(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t)

	writeFiles(t, agentsDir, map[string]string{
		"zeta.md": "---\nname: zeta\ndescription: Last one\ntools: [Read]\n---\nZeta body\n",
		"code-reviewer.md": `---
name: code-reviewer
description: >- Reviews pull requests for style issues
model: opus
tools:
  - Read
  - Grep
---

Review the diff.
`,
		"unnamed.md": "No frontmatter here.\n",
		"notes.txt":  "---\nname: not-an-agent\n---\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(agentsDir, "nested.md"), 0755))

	cat, err := loader.Agents(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Agent, cat.Kind)
	assert.Equal(t, []string{"code-reviewer", "unnamed", "zeta"}, cat.Names())
	assert.Empty(t, cat.Skipped)

	reviewer, ok := cat.Find("code-reviewer")
	require.True(t, ok)
	assert.Equal(t, "Reviews pull requests for style issues", reviewer.Description)
	assert.Equal(t, "opus", reviewer.Model)
	assert.Equal(t, []string{"Read", "Grep"}, reviewer.Tools)
	assert.Contains(t, reviewer.Raw, "description: >- Reviews pull requests for style issues")
	assert.True(t, strings.HasPrefix(reviewer.Raw, "---\nname: code-reviewer\n"))

	unnamed, ok := cat.Find("unnamed")
	require.True(t, ok)
	assert.Equal(t, "", unnamed.Description)
	assert.Equal(t, "sonnet", unnamed.Model)
	assert.Equal(t, []string{}, unnamed.Tools)
	assert.Equal(t, "No frontmatter here.\n", unnamed.Raw)
}

func TestLoader_RawFidelity(t *testing.T) {
	loader, agentsDir, commandsDir := newTestLoader(t)

	agentRaw := "---\nname: verbatim\ndescription: >- Kept as written\n---\nBody without trailing newline"
	commandRaw := "---\ndescription: >- Deploy it\nallowed-tools: [Bash]\n---\n\n# Deploy\n\n  >- literally\n"
	writeFiles(t, agentsDir, map[string]string{"verbatim.md": agentRaw})
	writeFiles(t, commandsDir, map[string]string{"deploy.md": commandRaw})

	agents, err := loader.Agents(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, agents.Len())
	assert.Equal(t, agentRaw, agents.Entries[0].Raw)

	commands, err := loader.Commands(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, commands.Len())
	assert.Equal(t, commandRaw, commands.Entries[0].Raw)
	assert.Equal(t, "Deploy it", commands.Entries[0].Description)
}

func TestLoader_HorizontalRuleIsNotFrontmatter(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t)

	plain := "-----\n\nUsage: *always* read the docs\n"
	writeFiles(t, agentsDir, map[string]string{
		"good.md":  "---\nname: good\ndescription: Valid agent\n---\n",
		"plain.md": plain,
	})

	cat, err := loader.Agents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"good", "plain"}, cat.Names())

	entry, ok := cat.Find("plain")
	require.True(t, ok)
	assert.Equal(t, "", entry.Description)
	assert.Equal(t, plain, entry.Raw)
}

func TestLoader_ByteOrderMark(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t)

	raw := "\ufeff---\nname: bom\ndescription: >- Starts with a mark\n---\nbody"
	writeFiles(t, agentsDir, map[string]string{"f.md": raw})

	cat, err := loader.Agents(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	entry := cat.Entries[0]
	assert.Equal(t, "bom", entry.Name)
	assert.Equal(t, "Starts with a mark", entry.Description)
	assert.Equal(t, raw, entry.Raw)
}

func TestLoader_BooleanLikeScalarsStayStrings(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t)
	writeFiles(t, agentsDir, map[string]string{"toggle.md": "---\ndescription: yes\nmodel: off\ntools: [on, n]\n---\n"})

	cat, err := loader.Agents(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())

	entry := cat.Entries[0]
	assert.Equal(t, "yes", entry.Description)
	assert.Equal(t, "off", entry.Model)
	assert.Equal(t, []string{"on", "n"}, entry.Tools)
}

func TestLoader_Commands(t *testing.T) {
	loader, _, commandsDir := newTestLoader(t)

	writeFiles(t, commandsDir, map[string]string{
		"review-pr.md": "---\nname: something-else\ndescription: Review a PR\nallowed-tools:\n  - Bash(gh:*)\n  - Read\n---\nReview $ARGUMENTS\n",
		"commit.md":    "---\n---\nCommit the staged changes.\n",
	})

	cat, err := loader.Commands(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Command, cat.Kind)
	assert.Equal(t, []string{"/commit", "/review-pr"}, cat.Names())

	review, ok := cat.Find("/review-pr")
	require.True(t, ok)
	assert.Equal(t, "Review a PR", review.Description)
	assert.Equal(t, []string{"Bash(gh:*)", "Read"}, review.AllowedTools)

	commit, ok := cat.Find("/commit")
	require.True(t, ok)
	assert.Equal(t, "", commit.Description)
	assert.Equal(t, []string{}, commit.AllowedTools)
}

func TestLoader_MissingDirectory(t *testing.T) {
	loader, err := NewLoader(
		WithAgentsDir(filepath.Join(t.TempDir(), "does-not-exist")),
	)
	require.NoError(t, err)

	cat, err := loader.Agents(context.Background())
	require.Error(t, err)
	assert.Nil(t, cat)
	assert.True(t, IsDirectoryUnavailable(err))
	assert.Contains(t, err.Error(), "agents directory")
}

func TestLoader_MalformedFrontmatterFails(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t)

	writeFiles(t, agentsDir, map[string]string{
		"good.md":   "---\nname: good\n---\n",
		"broken.md": "---\nname: broken\ndescription: {unterminated\n---\n",
	})

	cat, err := loader.Agents(context.Background())
	require.Error(t, err)
	assert.Nil(t, cat)
	assert.True(t, IsMetadataParseError(err))
	assert.Contains(t, err.Error(), "broken.md")
	assert.NotContains(t, err.Error(), "good.md")

	var metaErr *MetadataError
	require.ErrorAs(t, err, &metaErr)
	assert.Equal(t, "broken.md", metaErr.File)
	assert.Equal(t, Agent, metaErr.Kind)
}

func TestLoader_ReportsEveryFailure(t *testing.T) {
	loader, _, commandsDir := newTestLoader(t)

	writeFiles(t, commandsDir, map[string]string{
		"a.md": "---\ndescription: [oops\n---\n",
		"b.md": "---\ndescription: fine\n---\n",
		"c.md": "---\ndescription: {oops\n---\n",
	})

	_, err := loader.Commands(context.Background())
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "a.md")
	assert.Contains(t, msg, "c.md")
	assert.Less(t, strings.Index(msg, "a.md"), strings.Index(msg, "c.md"))
}

func TestLoader_UnreadableFile(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t)

	writeFiles(t, agentsDir, map[string]string{"ok.md": "---\nname: ok\n---\n"})
	require.NoError(t, os.Symlink(filepath.Join(agentsDir, "missing-target"), filepath.Join(agentsDir, "dangling.md")))

	_, err := loader.Agents(context.Background())
	require.Error(t, err)
	assert.True(t, IsFileUnreadable(err))
	assert.Contains(t, err.Error(), "dangling.md")
}

func TestLoader_SkipPolicy(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t, WithErrorPolicy(PolicySkip))

	writeFiles(t, agentsDir, map[string]string{
		"good.md":   "---\nname: good\n---\n",
		"broken.md": "---\nname: [broken\n---\n",
	})
	require.NoError(t, os.Symlink(filepath.Join(agentsDir, "missing-target"), filepath.Join(agentsDir, "dangling.md")))

	cat, err := loader.Agents(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"good"}, cat.Names())
	require.Len(t, cat.Skipped, 2)
	assert.Equal(t, "broken.md", cat.Skipped[0].File)
	assert.Contains(t, cat.Skipped[0].Reason, "invalid frontmatter")
	assert.Equal(t, "dangling.md", cat.Skipped[1].File)
	assert.Contains(t, cat.Skipped[1].Reason, "failed to read")
}

func TestLoader_Deterministic(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t, WithConcurrency(2))

	files := map[string]string{}
	for _, name := range []string{"delta", "alpha", "Charlie", "bravo", "echo", "foxtrot", "golf"} {
		files[name+".md"] = "---\ndescription: " + name + "\n---\n" + name + " body\n"
	}
	writeFiles(t, agentsDir, files)

	first, err := loader.Agents(context.Background())
	require.NoError(t, err)
	second, err := loader.Agents(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 7, first.Len())
}

func TestLoader_LocaleAwareOrder(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t)

	writeFiles(t, agentsDir, map[string]string{
		"1.md": "---\nname: zeta\n---\n",
		"2.md": "---\nname: Émile\n---\n",
		"3.md": "---\nname: beta\n---\n",
		"4.md": "---\nname: Alpha\n---\n",
		"5.md": "---\nname: alpha\n---\n",
	})

	cat, err := loader.Agents(context.Background())
	require.NoError(t, err)

	names := cat.Names()
	require.Len(t, names, 5)
	assert.Equal(t, []string{"beta", "Émile", "zeta"}, names[2:])

	col := collate.New(language.English)
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, col.CompareString(names[i-1], names[i]), 0, "%s before %s", names[i-1], names[i])
	}
}

func TestLoader_DuplicateNamesKept(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t)

	writeFiles(t, agentsDir, map[string]string{
		"a.md": "---\nname: twin\ndescription: first\n---\n",
		"b.md": "---\nname: twin\ndescription: second\n---\n",
	})

	cat, err := loader.Agents(context.Background())
	require.NoError(t, err)

	require.Len(t, cat.Entries, 2)
	assert.Equal(t, "first", cat.Entries[0].Description)
	assert.Equal(t, "second", cat.Entries[1].Description)
}

func TestLoader_CustomPattern(t *testing.T) {
	loader, agentsDir, _ := newTestLoader(t, WithPattern("*.{md,markdown}"))

	writeFiles(t, agentsDir, map[string]string{
		"one.md":       "---\nname: one\n---\n",
		"two.markdown": "---\nname: two\n---\n",
		"three.txt":    "---\nname: three\n---\n",
	})

	cat, err := loader.Agents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, cat.Names())
}

func TestNewLoader_Options(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)
	assert.Equal(t, DefaultAgentsDir, loader.Dir(Agent))
	assert.Equal(t, DefaultCommandsDir, loader.Dir(Command))

	invalid := []Option{
		WithAgentsDir(""),
		WithCommandsDir(""),
		WithPattern("[unclosed"),
		WithLocale("not a locale!"),
		WithErrorPolicy("ignore"),
		WithConcurrency(-1),
	}
	for _, opt := range invalid {
		_, err := NewLoader(opt)
		assert.Error(t, err)
	}
}

func TestCatalog_Search(t *testing.T) {
	cat := &Catalog[CommandEntry]{
		Kind: Command,
		Entries: []CommandEntry{
			{Name: "/commit", Description: "Create a git commit"},
			{Name: "/deploy", Description: "Ship to production"},
			{Name: "/review-pr", Description: "Review a pull request"},
		},
	}

	assert.Len(t, cat.Search(""), 3)
	assert.Equal(t, []CommandEntry{cat.Entries[0]}, cat.Search("GIT"))
	assert.Equal(t, []CommandEntry{cat.Entries[2]}, cat.Search("review"))
	assert.Empty(t, cat.Search("nothing"))

	_, ok := cat.Find("/missing")
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"agent", "agents", " Agents "} {
		kind, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, Agent, kind)
	}

	kind, err := ParseKind("commands")
	require.NoError(t, err)
	assert.Equal(t, Command, kind)
	assert.Equal(t, "commands", kind.String())

	_, err = ParseKind("skills")
	assert.Error(t, err)
}

func TestParseErrorPolicy(t *testing.T) {
	p, err := ParseErrorPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFail, p)

	p, err = ParseErrorPolicy("SKIP")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)
}
