package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
	"github.com/jingkaihe/agentshelf/pkg/logger"
)

// BuildResult summarizes a static export
type BuildResult struct {
	OutDir   string
	Agents   int
	Commands int
	Files    []string
}

// Build exports both catalogs as a static site under outDir: index.html, one
// preview page per entry and a JSON file per kind. Unlike the live page, a
// static export with a failing kind is useless, so any catalog error aborts the
// build before anything is written.
func Build(ctx context.Context, source Source, renderer *Renderer, outDir string) (*BuildResult, error) {
	agents, err := source.Agents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build agents catalog")
	}
	commands, err := source.Commands(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build commands catalog")
	}

	links := map[catalog.Kind]map[string]string{
		catalog.Agent:   fileNames(agents.Names()),
		catalog.Command: fileNames(commands.Names()),
	}

	files := map[string][]byte{}

	render := func(path string, opts PageOptions) error {
		opts.Static = true
		page := newPage(agents, nil, commands, nil, opts)
		page.links = links

		var buf bytes.Buffer
		if err := renderer.Render(&buf, page); err != nil {
			return errors.Wrapf(err, "failed to render '%s'", path)
		}
		files[path] = buf.Bytes()
		return nil
	}

	if err := render("index.html", PageOptions{}); err != nil {
		return nil, err
	}
	for name, file := range links[catalog.Agent] {
		if err := render(filepath.Join(catalog.Agent.String(), file), PageOptions{Agent: name, Root: "../"}); err != nil {
			return nil, err
		}
	}
	for name, file := range links[catalog.Command] {
		if err := render(filepath.Join(catalog.Command.String(), file), PageOptions{Command: name, Root: "../"}); err != nil {
			return nil, err
		}
	}

	agentsJSON, err := json.MarshalIndent(agents.Entries, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode agents")
	}
	files["agents.json"] = agentsJSON

	commandsJSON, err := json.MarshalIndent(commands.Entries, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode commands")
	}
	files["commands.json"] = commandsJSON

	result := &BuildResult{OutDir: outDir, Agents: agents.Len(), Commands: commands.Len()}
	for path, content := range files {
		target := filepath.Join(outDir, path)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for '%s'", target)
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return nil, errors.Wrapf(err, "failed to write '%s'", target)
		}
		result.Files = append(result.Files, path)
	}
	slices.Sort(result.Files)

	logger.G(ctx).WithFields(map[string]any{
		"out_dir":  outDir,
		"agents":   result.Agents,
		"commands": result.Commands,
		"files":    len(result.Files),
	}).Info("Built static site")

	return result, nil
}

// fileNames assigns every distinct name a unique HTML file name derived from its
// slug, e.g. "/review-pr" becomes "review-pr.html". Names are visited in catalog
// order so the assignment is stable.
func fileNames(names []string) map[string]string {
	files := make(map[string]string, len(names))
	used := map[string]bool{}

	for _, name := range names {
		if _, ok := files[name]; ok {
			continue
		}

		base := slug.Make(name)
		if base == "" {
			base = "entry"
		}

		candidate := base
		for i := 2; used[candidate]; i++ {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		used[candidate] = true
		files[name] = candidate + ".html"
	}
	return files
}
