package catalog

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/agentshelf/pkg/logger"
)

// Document is the raw content of one source file. It only lives for the
// duration of a single catalog build.
type Document struct {
	Filename string
	Raw      string
}

// listDocuments returns the names of the files in dir that match pattern, in
// directory order. Subdirectories and non-matching files are skipped.
func listDocuments(ctx context.Context, kind Kind, dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryError{Kind: kind, Dir: dir, Err: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		matched, err := doublestar.Match(pattern, entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "invalid document pattern '%s'", pattern)
		}
		if matched {
			names = append(names, entry.Name())
		}
	}

	logger.G(ctx).WithFields(map[string]any{
		"kind":  kind.String(),
		"dir":   dir,
		"count": len(names),
	}).Debug("Listed documents")

	return names, nil
}

// readDocument reads the full content of dir/filename
func readDocument(kind Kind, dir, filename string) (Document, error) {
	content, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return Document{}, &FileError{Kind: kind, File: filename, Err: err}
	}

	return Document{Filename: filename, Raw: string(content)}, nil
}
