package catalog

import (
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/jingkaihe/agentshelf/pkg/logger"
)

const (
	// DefaultAgentsDir is where agent documents are read from
	DefaultAgentsDir = ".claude/agents"
	// DefaultCommandsDir is where command documents are read from
	DefaultCommandsDir = ".claude/commands"
	// DefaultPattern selects which directory entries are documents
	DefaultPattern = "*.md"
	// DefaultLocale is the collation locale used to order catalogs
	DefaultLocale = "en"
)

// ErrorPolicy decides what happens to a catalog build when an individual
// document cannot be read or its frontmatter cannot be parsed
type ErrorPolicy string

const (
	// PolicyFail aborts the build of the kind and reports every failing file
	PolicyFail ErrorPolicy = "fail"
	// PolicySkip excludes failing files, logs them and records them in Catalog.Skipped
	PolicySkip ErrorPolicy = "skip"
)

// ParseErrorPolicy validates a policy name
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch p := ErrorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyFail, PolicySkip:
		return p, nil
	case "":
		return PolicyFail, nil
	default:
		return "", errors.Errorf("invalid error policy '%s', must be one of: %s, %s", s, PolicyFail, PolicySkip)
	}
}

// Loader builds agent and command catalogs from their source directories.
// It holds no state between builds: every call re-reads the directory.
type Loader struct {
	agentsDir   string
	commandsDir string
	pattern     string
	locale      language.Tag
	policy      ErrorPolicy
	concurrency int
}

// Option configures a Loader
type Option func(*Loader) error

// WithAgentsDir sets the directory agent documents are read from
func WithAgentsDir(dir string) Option {
	return func(l *Loader) error {
		if dir == "" {
			return errors.New("agents directory cannot be empty")
		}
		l.agentsDir = dir
		return nil
	}
}

// WithCommandsDir sets the directory command documents are read from
func WithCommandsDir(dir string) Option {
	return func(l *Loader) error {
		if dir == "" {
			return errors.New("commands directory cannot be empty")
		}
		l.commandsDir = dir
		return nil
	}
}

// WithPattern sets the glob a file name must match to be treated as a document
func WithPattern(pattern string) Option {
	return func(l *Loader) error {
		if pattern == "" || !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid document pattern '%s'", pattern)
		}
		l.pattern = pattern
		return nil
	}
}

// WithLocale sets the BCP 47 locale used to order entries by name
func WithLocale(locale string) Option {
	return func(l *Loader) error {
		tag, err := language.Parse(locale)
		if err != nil {
			return errors.Wrapf(err, "invalid locale '%s'", locale)
		}
		l.locale = tag
		return nil
	}
}

// WithErrorPolicy sets how per-file failures are handled
func WithErrorPolicy(policy ErrorPolicy) Option {
	return func(l *Loader) error {
		p, err := ParseErrorPolicy(string(policy))
		if err != nil {
			return err
		}
		l.policy = p
		return nil
	}
}

// WithConcurrency bounds the number of files processed at once. Zero means unbounded.
func WithConcurrency(n int) Option {
	return func(l *Loader) error {
		if n < 0 {
			return errors.Errorf("concurrency must not be negative, got %d", n)
		}
		l.concurrency = n
		return nil
	}
}

// NewLoader creates a loader; unset options take their defaults
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{
		agentsDir:   DefaultAgentsDir,
		commandsDir: DefaultCommandsDir,
		pattern:     DefaultPattern,
		locale:      language.MustParse(DefaultLocale),
		policy:      PolicyFail,
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, errors.Wrap(err, "failed to apply loader option")
		}
	}

	return l, nil
}

// Dir returns the source directory for kind
func (l *Loader) Dir(kind Kind) string {
	if kind == Command {
		return l.commandsDir
	}
	return l.agentsDir
}

// Agents builds the agent catalog
func (l *Loader) Agents(ctx context.Context) (*Catalog[AgentEntry], error) {
	return build(ctx, l, Agent, NormalizeAgent)
}

// Commands builds the command catalog
func (l *Loader) Commands(ctx context.Context) (*Catalog[CommandEntry], error) {
	return build(ctx, l, Command, NormalizeCommand)
}

// processDocument runs one file through read, repair, parse and normalize
func processDocument[E Entry](ctx context.Context, kind Kind, dir, filename string, normalize func(string, map[string]any, string) E) (E, error) {
	var zero E

	doc, err := readDocument(kind, dir, filename)
	if err != nil {
		return zero, err
	}

	logger.G(ctx).WithField("file", filename).Debug("Parsing document")

	fm, err := ParseFrontmatter(FixBlockScalars(doc.Raw))
	if err != nil {
		return zero, &MetadataError{Kind: kind, File: filename, Err: err}
	}

	return normalize(doc.Filename, fm.Fields, doc.Raw), nil
}
