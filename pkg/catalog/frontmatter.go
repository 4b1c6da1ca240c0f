package catalog

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	frontmatterDelimiter = "---"
	byteOrderMark        = "\ufeff"
)

// inlineBlockScalar matches a folded block scalar indicator followed by its value on
// the same line, either at the start of a line or right after a mapping key or a
// sequence dash, e.g. `>- text` or `description: >- text`.
var inlineBlockScalar = regexp.MustCompile(`(?m)^([ \t]*(?:-[ \t]+)?(?:[^\s#:][^:\n]*:[ \t]+)?)>-[ \t]+(\S)`)

// FixBlockScalars removes inline `>-` indicators so that the value that follows
// parses as a plain scalar. Indentation and everything else are left untouched.
// Applying it to already repaired text is a no-op.
func FixBlockScalars(raw string) string {
	for {
		fixed := inlineBlockScalar.ReplaceAllString(raw, "${1}${2}")
		if fixed == raw {
			return fixed
		}
		raw = fixed
	}
}

// Frontmatter is the parsed metadata block of a document together with its body
type Frontmatter struct {
	// Fields holds the decoded YAML mapping. It is nil when the document has no
	// frontmatter block and empty when the block is empty.
	Fields map[string]any
	// Body is the document text following the closing delimiter
	Body string
}

// ParseFrontmatter splits content into its frontmatter mapping and body.
// Only a first line of exactly `---` opens a block, and only another `---` line
// closes it; a leading byte order mark is ignored. A document without a block
// yields a nil mapping and the whole text as body. An unclosed block runs to the
// end of the document. A block that is not valid YAML is an error; it is never
// treated as empty.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	content = strings.TrimPrefix(content, byteOrderMark)
	lines := strings.SplitAfter(content, "\n")

	endLine, ok := frontmatterBounds(lines)
	if !ok {
		return &Frontmatter{Body: content}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:endLine], "")), &fields); err != nil {
		return nil, errors.Wrap(err, "failed to parse frontmatter as YAML")
	}

	// An empty block, or one holding only comments, decodes to a nil map
	if fields == nil {
		fields = map[string]any{}
	}

	body := ""
	if endLine < len(lines) {
		body = strings.Join(lines[endLine+1:], "")
	}

	return &Frontmatter{Fields: fields, Body: body}, nil
}

// frontmatterBounds returns the index of the closing delimiter line. An unclosed
// block reports len(lines). ok is false when the first line does not open a block.
func frontmatterBounds(lines []string) (endLine int, ok bool) {
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return 0, false
	}

	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			return i, true
		}
	}

	return len(lines), true
}

// isDelimiter accepts `---` followed only by trailing blanks or a line ending.
// Longer or shorter runs of dashes are markdown rules, not delimiters.
func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r\n") == frontmatterDelimiter
}
