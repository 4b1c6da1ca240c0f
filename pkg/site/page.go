// Package site renders agent and command catalogs as an HTML page with search
// and an inline preview of each document, and exports them as a static site.
package site

import (
	"context"
	"net/url"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
	"github.com/jingkaihe/agentshelf/pkg/logger"
)

// Source provides freshly built catalogs. *catalog.Loader implements it.
type Source interface {
	Agents(ctx context.Context) (*catalog.Catalog[catalog.AgentEntry], error)
	Commands(ctx context.Context) (*catalog.Catalog[catalog.CommandEntry], error)
}

// Section is the part of a page showing one kind. Err is set when the catalog
// of that kind could not be built; the page then shows an error panel instead.
type Section[E catalog.Entry] struct {
	Kind    catalog.Kind
	Entries []E
	Total   int
	Skipped []catalog.SkippedFile
	Err     error
}

// Preview is the verbatim view of the selected document
type Preview struct {
	Kind  catalog.Kind
	Title string
	Raw   string
	Body  string
}

// PageOptions selects what a page shows
type PageOptions struct {
	Query   string
	Agent   string
	Command string
	// Static renders links between exported files instead of query URLs
	Static bool
	// Root is the relative path from the rendered file back to the site root
	Root string
}

// Page is the data handed to the page template
type Page struct {
	Title    string
	Query    string
	Static   bool
	Root     string
	Agents   Section[catalog.AgentEntry]
	Commands Section[catalog.CommandEntry]
	Preview  *Preview

	links map[catalog.Kind]map[string]string
}

// NewPage builds both catalogs from source and assembles the page. A failing
// kind does not fail the page; its section carries the error.
func NewPage(ctx context.Context, source Source, opts PageOptions) *Page {
	agents, agentsErr := source.Agents(ctx)
	if agentsErr != nil {
		logger.G(ctx).WithError(agentsErr).Error("failed to build agents catalog")
	}

	commands, commandsErr := source.Commands(ctx)
	if commandsErr != nil {
		logger.G(ctx).WithError(commandsErr).Error("failed to build commands catalog")
	}

	return newPage(agents, agentsErr, commands, commandsErr, opts)
}

func newPage(agents *catalog.Catalog[catalog.AgentEntry], agentsErr error, commands *catalog.Catalog[catalog.CommandEntry], commandsErr error, opts PageOptions) *Page {
	page := &Page{
		Title:    "Agents & Commands",
		Query:    opts.Query,
		Static:   opts.Static,
		Root:     opts.Root,
		Agents:   newSection(catalog.Agent, agents, agentsErr, opts.Query),
		Commands: newSection(catalog.Command, commands, commandsErr, opts.Query),
	}

	if opts.Agent != "" && agents != nil {
		if entry, ok := agents.Find(opts.Agent); ok {
			page.Preview = newPreview(catalog.Agent, entry)
		}
	}
	if page.Preview == nil && opts.Command != "" && commands != nil {
		if entry, ok := commands.Find(opts.Command); ok {
			page.Preview = newPreview(catalog.Command, entry)
		}
	}

	return page
}

func newSection[E catalog.Entry](kind catalog.Kind, cat *catalog.Catalog[E], err error, query string) Section[E] {
	if err != nil || cat == nil {
		return Section[E]{Kind: kind, Err: err}
	}

	return Section[E]{
		Kind:    kind,
		Entries: cat.Search(query),
		Total:   cat.Len(),
		Skipped: cat.Skipped,
	}
}

func newPreview(kind catalog.Kind, entry catalog.Entry) *Preview {
	return &Preview{
		Kind:  kind,
		Title: entry.EntryName(),
		Raw:   entry.EntryRaw(),
		Body:  renderBody(entry.EntryRaw()),
	}
}

// AgentHref links to the preview of the named agent
func (p *Page) AgentHref(name string) string {
	return p.href(catalog.Agent, name)
}

// CommandHref links to the preview of the named command
func (p *Page) CommandHref(name string) string {
	return p.href(catalog.Command, name)
}

// CloseHref links back to the page without a preview
func (p *Page) CloseHref() string {
	if p.Static {
		return p.Root + "index.html"
	}
	if p.Query != "" {
		return "/?" + url.Values{"q": {p.Query}}.Encode()
	}
	return "/"
}

func (p *Page) href(kind catalog.Kind, name string) string {
	if p.Static {
		return p.Root + kind.String() + "/" + p.links[kind][name]
	}

	params := url.Values{}
	if p.Query != "" {
		params.Set("q", p.Query)
	}
	if kind == catalog.Agent {
		params.Set("agent", name)
	} else {
		params.Set("command", name)
	}
	return "/?" + params.Encode()
}
