package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
	"github.com/jingkaihe/agentshelf/pkg/presenter"
	"github.com/jingkaihe/agentshelf/pkg/site"
)

// ListConfig holds configuration for the list command
type ListConfig struct {
	Format string
	Query  string
}

// NewListConfig creates a new ListConfig with default values
func NewListConfig() *ListConfig {
	return &ListConfig{
		Format: "table",
	}
}

var listCmd = &cobra.Command{
	Use:   "list [agents|commands]",
	Short: "List agents and commands",
	Long: `List the agent and command catalogs sorted by name. Without an argument both
kinds are listed.

Examples:
  agentshelf list                        # Both catalogs as a table
  agentshelf list agents --format json   # Agents as JSON
  agentshelf list commands --query pr    # Commands whose name or description mentions "pr"
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		kinds := catalog.Kinds()
		if len(args) == 1 {
			kind, err := catalog.ParseKind(args[0])
			if err != nil {
				presenter.Error(err, "invalid argument")
				os.Exit(1)
			}
			kinds = []catalog.Kind{kind}
		}

		_, loader, err := loadConfig()
		if err != nil {
			presenter.Error(err, "failed to load configuration")
			os.Exit(1)
		}

		if err := runList(ctx, cmd.OutOrStdout(), loader, kinds, getListConfigFromFlags(cmd)); err != nil {
			presenter.Error(err, "failed to list catalog")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().String("format", defaults.Format, "Output format: table, json or yaml")
	listCmd.Flags().StringP("query", "q", defaults.Query, "Only show entries whose name or description contains this text")
}

// getListConfigFromFlags extracts list configuration from command flags
func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()

	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	if query, err := cmd.Flags().GetString("query"); err == nil {
		config.Query = query
	}

	return config
}

// listing is the catalog content printed by the list command
type listing struct {
	Agents   *catalog.Catalog[catalog.AgentEntry]
	Commands *catalog.Catalog[catalog.CommandEntry]
	Query    string
}

// runList builds the requested catalogs and writes them to w in the configured format
func runList(ctx context.Context, w io.Writer, source site.Source, kinds []catalog.Kind, config *ListConfig) error {
	switch config.Format {
	case "table", "json", "yaml":
	default:
		return errors.Errorf("invalid format '%s', must be one of: table, json, yaml", config.Format)
	}

	l := listing{Query: config.Query}
	for _, kind := range kinds {
		var err error
		switch kind {
		case catalog.Agent:
			l.Agents, err = source.Agents(ctx)
		case catalog.Command:
			l.Commands, err = source.Commands(ctx)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to build %s catalog", kind)
		}
	}

	switch config.Format {
	case "json":
		return displayListJSON(w, l)
	case "yaml":
		return displayListYAML(w, l)
	default:
		displayListTable(w, l)
		return nil
	}
}

// entries returns the matching entries keyed by kind, omitting kinds that were not requested
func (l listing) entries() map[string]any {
	out := map[string]any{}
	if l.Agents != nil {
		out[catalog.Agent.String()] = l.Agents.Search(l.Query)
	}
	if l.Commands != nil {
		out[catalog.Command.String()] = l.Commands.Search(l.Query)
	}
	return out
}

func displayListJSON(w io.Writer, l listing) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(l.entries()); err != nil {
		return errors.Wrap(err, "failed to encode catalog as JSON")
	}
	return nil
}

func displayListYAML(w io.Writer, l listing) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(l.entries()); err != nil {
		return errors.Wrap(err, "failed to encode catalog as YAML")
	}
	return encoder.Close()
}

func displayListTable(w io.Writer, l listing) {
	p := presenter.NewWithOptions(w, os.Stderr, presenter.ColorAuto)

	if l.Agents != nil {
		agents := l.Agents.Search(l.Query)
		p.Section(fmt.Sprintf("Agents (%d)", len(agents)))
		if len(agents) == 0 {
			p.Info("No agents found.")
		}
		for _, agent := range agents {
			p.Entry(agent.Name, agent.Description)
			p.Field("model", agent.Model)
			p.Field("tools", agent.Tools...)
		}
		displaySkipped(p, l.Agents.Kind, l.Agents.Skipped)
	}

	if l.Agents != nil && l.Commands != nil {
		p.Info("")
	}

	if l.Commands != nil {
		commands := l.Commands.Search(l.Query)
		p.Section(fmt.Sprintf("Commands (%d)", len(commands)))
		if len(commands) == 0 {
			p.Info("No commands found.")
		}
		for _, command := range commands {
			p.Entry(command.Name, command.Description)
			p.Field("allowed tools", command.AllowedTools...)
		}
		displaySkipped(p, l.Commands.Kind, l.Commands.Skipped)
	}
}

func displaySkipped(p presenter.Presenter, kind catalog.Kind, skipped []catalog.SkippedFile) {
	if len(skipped) == 0 {
		return
	}

	files := make([]string, 0, len(skipped))
	for _, s := range skipped {
		files = append(files, s.File)
	}
	p.Warning(fmt.Sprintf("%d %s file(s) skipped: %s", len(skipped), strings.TrimSuffix(kind.String(), "s"), strings.Join(files, ", ")))
}
