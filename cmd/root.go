package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjulian5/promote/cmd/deploy"
	"github.com/bjulian5/promote/cmd/projects"
	"github.com/bjulian5/promote/cmd/review"
	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/ui"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "promote",
	Short: "Review and deploy what is on staging but not yet in production",
	Long: `Promote lists the merged pull requests that are on staging but not in production,
asks for approval and then starts the production deployment workflow.

Example:
  promote review api     # Show the pending pull requests
  promote deploy api     # Review, approve and deploy
  promote projects       # List the deployable projects`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.Error(err.Error())
		os.Exit(apperrors.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default: config.yaml, config.json, then the user config dir)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	commands := []Command{
		&review.Command{},
		&deploy.Command{},
		&projects.Command{},
	}

	for _, cmd := range commands {
		cmd.Register(rootCmd)
	}
}
