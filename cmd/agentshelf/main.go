package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/agentshelf/pkg/catalog"
	"github.com/jingkaihe/agentshelf/pkg/config"
	"github.com/jingkaihe/agentshelf/pkg/logger"
	"github.com/jingkaihe/agentshelf/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "agentshelf",
	Short: "Browse and publish Claude agent and command definitions",
	Long: `agentshelf discovers agent and command definitions (markdown files with YAML
frontmatter), normalizes their metadata and presents them as a sorted catalog,
either in the terminal, through a local web UI or as a static site.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		if err := config.Init(viper.GetViper(), configFile); err != nil {
			return err
		}
		return logger.Configure(viper.GetString("log_level"), viper.GetString("log_format"))
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: $HOME/.agentshelf/config.yaml or ./config.yaml)")
	flags.String("agents-dir", catalog.DefaultAgentsDir, "Directory containing agent definitions")
	flags.String("commands-dir", catalog.DefaultCommandsDir, "Directory containing command definitions")
	flags.String("pattern", catalog.DefaultPattern, "Glob pattern selecting definition files")
	flags.String("locale", catalog.DefaultLocale, "Locale used to sort entries by name")
	flags.String("error-policy", string(catalog.PolicyFail), "How to handle unreadable or malformed files: fail or skip")
	flags.String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "fmt", "Log format: fmt, text or json")

	viper.BindPFlag("agents_dir", flags.Lookup("agents-dir"))
	viper.BindPFlag("commands_dir", flags.Lookup("commands-dir"))
	viper.BindPFlag("pattern", flags.Lookup("pattern"))
	viper.BindPFlag("locale", flags.Lookup("locale"))
	viper.BindPFlag("error_policy", flags.Lookup("error-policy"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration and the catalog loader built from it
func loadConfig() (config.Config, *catalog.Loader, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return cfg, nil, err
	}

	loader, err := cfg.NewLoader()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, loader, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
