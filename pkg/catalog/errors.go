package catalog

import (
	"fmt"

	"github.com/pkg/errors"
)

// DirectoryError reports that the source directory of a kind is missing or unreadable.
// It is always fatal for the catalog build of that kind.
type DirectoryError struct {
	Kind Kind
	Dir  string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("%s directory '%s' unavailable: %v", e.Kind, e.Dir, e.Err)
}

// Unwrap returns the underlying I/O error
func (e *DirectoryError) Unwrap() error { return e.Err }

// Cause returns the underlying I/O error
func (e *DirectoryError) Cause() error { return e.Err }

// FileError reports that a single document could not be read
type FileError struct {
	Kind Kind
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to read %s file '%s': %v", e.Kind, e.File, e.Err)
}

// Unwrap returns the underlying I/O error
func (e *FileError) Unwrap() error { return e.Err }

// Cause returns the underlying I/O error
func (e *FileError) Cause() error { return e.Err }

// MetadataError reports a frontmatter block that is present but is not valid YAML,
// even after block scalar repair
type MetadataError struct {
	Kind Kind
	File string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("invalid frontmatter in %s file '%s': %v", e.Kind, e.File, e.Err)
}

// Unwrap returns the underlying YAML error
func (e *MetadataError) Unwrap() error { return e.Err }

// Cause returns the underlying YAML error
func (e *MetadataError) Cause() error { return e.Err }

// IsDirectoryUnavailable reports whether err contains a DirectoryError
func IsDirectoryUnavailable(err error) bool {
	var target *DirectoryError
	return errors.As(err, &target)
}

// IsFileUnreadable reports whether err contains a FileError
func IsFileUnreadable(err error) bool {
	var target *FileError
	return errors.As(err, &target)
}

// IsMetadataParseError reports whether err contains a MetadataError
func IsMetadataParseError(err error) bool {
	var target *MetadataError
	return errors.As(err, &target)
}
