package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/agentshelf/pkg/presenter"
	"github.com/jingkaihe/agentshelf/pkg/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the catalogs as a static site",
	Long: `Render the catalog page, one preview page per agent and command, and a JSON
file per kind into the output directory. Nothing is written if either catalog
fails to build.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, loader, err := loadConfig()
		if err != nil {
			presenter.Error(err, "failed to load configuration")
			os.Exit(1)
		}

		result, err := runBuild(cmd.Context(), loader, cfg.Build.OutDir)
		if err != nil {
			presenter.Error(err, "failed to build static site")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Built %d agents and %d commands into %s (%d files)",
			result.Agents, result.Commands, result.OutDir, len(result.Files)))
	},
}

func init() {
	buildCmd.Flags().StringP("out", "o", "out", "Directory to write the static site to")
	viper.BindPFlag("build.out_dir", buildCmd.Flags().Lookup("out"))
}

// runBuild renders the static site for source into outDir
func runBuild(ctx context.Context, source site.Source, outDir string) (*site.BuildResult, error) {
	renderer, err := site.NewRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create page renderer")
	}
	return site.Build(ctx, source, renderer, outDir)
}
