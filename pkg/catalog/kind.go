// Package catalog discovers agent and command definitions written as markdown
// files with YAML frontmatter, normalizes their metadata onto a strict schema
// and assembles them into deterministically ordered catalogs.
package catalog

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind selects which source directory and normalization schema a catalog build uses
type Kind int

const (
	// Agent documents live in the agents directory and normalize to AgentEntry
	Agent Kind = iota
	// Command documents live in the commands directory and normalize to CommandEntry
	Command
)

// String returns the plural, lower-case name of the kind
func (k Kind) String() string {
	switch k {
	case Agent:
		return "agents"
	case Command:
		return "commands"
	default:
		return "unknown"
	}
}

// ParseKind accepts the singular or plural name of a kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "agent", "agents":
		return Agent, nil
	case "command", "commands":
		return Command, nil
	default:
		return 0, errors.Errorf("unknown document kind '%s', must be one of: agents, commands", s)
	}
}

// Kinds returns every document kind in display order
func Kinds() []Kind {
	return []Kind{Agent, Command}
}
