package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
	"github.com/jingkaihe/agentshelf/pkg/presenter"
	"github.com/jingkaihe/agentshelf/pkg/site"
)

var showCmd = &cobra.Command{
	Use:   "show <agent|command> <name>",
	Short: "Print the source of an agent or command",
	Long: `Print the verbatim source of a single agent or command definition, exactly as
it is stored on disk. Command names may be given with or without the leading slash.

Examples:
  agentshelf show agent code-reviewer
  agentshelf show command review-pr
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := catalog.ParseKind(args[0])
		if err != nil {
			presenter.Error(err, "invalid argument")
			os.Exit(1)
		}

		_, loader, err := loadConfig()
		if err != nil {
			presenter.Error(err, "failed to load configuration")
			os.Exit(1)
		}

		if err := runShow(cmd.Context(), cmd.OutOrStdout(), loader, kind, args[1]); err != nil {
			presenter.Error(err, "failed to show entry")
			os.Exit(1)
		}
	},
}

// runShow writes the raw document of the named entry to w
func runShow(ctx context.Context, w io.Writer, source site.Source, kind catalog.Kind, name string) error {
	var (
		entry catalog.Entry
		found bool
	)

	switch kind {
	case catalog.Agent:
		agents, err := source.Agents(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to build agents catalog")
		}
		entry, found = agents.Find(name)
	case catalog.Command:
		commands, err := source.Commands(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to build commands catalog")
		}
		name = catalog.CommandPrefix + strings.TrimPrefix(name, catalog.CommandPrefix)
		entry, found = commands.Find(name)
	}

	if !found {
		return errors.Errorf("%s '%s' not found", strings.TrimSuffix(kind.String(), "s"), name)
	}

	_, err := fmt.Fprint(w, entry.EntryRaw())
	return err
}
