package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jingkaihe/agentshelf/pkg/logger"
)

// SkippedFile records a document excluded from a catalog under PolicySkip
type SkippedFile struct {
	File   string `json:"file" yaml:"file"`
	Reason string `json:"reason" yaml:"reason"`
}

// Catalog is the ordered set of entries built for one kind
type Catalog[E Entry] struct {
	Kind    Kind          `json:"kind" yaml:"kind"`
	Entries []E           `json:"entries" yaml:"entries"`
	Skipped []SkippedFile `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Len returns the number of entries
func (c *Catalog[E]) Len() int {
	return len(c.Entries)
}

// Find returns the first entry with the given name
func (c *Catalog[E]) Find(name string) (E, bool) {
	for _, entry := range c.Entries {
		if entry.EntryName() == name {
			return entry, true
		}
	}
	var zero E
	return zero, false
}

// Search returns the entries whose name or description contains query, ignoring
// case. An empty query matches everything. Catalog order is preserved.
func (c *Catalog[E]) Search(query string) []E {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.Entries
	}

	matches := make([]E, 0, len(c.Entries))
	for _, entry := range c.Entries {
		if strings.Contains(strings.ToLower(entry.EntryName()), query) ||
			strings.Contains(strings.ToLower(entry.EntryDescription()), query) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// Names returns the entry names in catalog order
func (c *Catalog[E]) Names() []string {
	names := make([]string, 0, len(c.Entries))
	for _, entry := range c.Entries {
		names = append(names, entry.EntryName())
	}
	return names
}

// build lists the documents of kind, processes them concurrently and assembles the
// results into a sorted catalog. Results are collected by listing index so the
// outcome does not depend on the order in which reads complete.
func build[E Entry](ctx context.Context, l *Loader, kind Kind, normalize func(string, map[string]any, string) E) (*Catalog[E], error) {
	dir := l.Dir(kind)

	names, err := listDocuments(ctx, kind, dir, l.pattern)
	if err != nil {
		return nil, err
	}

	entries := make([]E, len(names))
	failures := make([]error, len(names))

	var g errgroup.Group
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}
	for i, name := range names {
		g.Go(func() error {
			entries[i], failures[i] = processDocument(ctx, kind, dir, name, normalize)
			return nil
		})
	}
	_ = g.Wait()

	cat := &Catalog[E]{Kind: kind, Entries: make([]E, 0, len(names))}
	var result *multierror.Error

	for i, failure := range failures {
		if failure == nil {
			cat.Entries = append(cat.Entries, entries[i])
			continue
		}

		if l.policy == PolicySkip {
			logger.G(ctx).WithField("file", names[i]).WithError(failure).Warn("Skipping invalid document")
			cat.Skipped = append(cat.Skipped, SkippedFile{File: names[i], Reason: failure.Error()})
			continue
		}
		result = multierror.Append(result, failure)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	sortEntries(cat.Entries, l.locale)

	logger.G(ctx).WithFields(map[string]any{
		"kind":    kind.String(),
		"count":   len(cat.Entries),
		"skipped": len(cat.Skipped),
	}).Info("Built catalog")

	return cat, nil
}

// sortEntries orders entries by name using locale-aware collation. The sort is
// stable, so entries with equal names keep their directory order.
func sortEntries[E Entry](entries []E, locale language.Tag) {
	col := collate.New(locale)
	slices.SortStableFunc(entries, func(a, b E) int {
		return col.CompareString(a.EntryName(), b.EntryName())
	})
}
