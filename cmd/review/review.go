package review

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/promote/internal/common"
	"github.com/bjulian5/promote/internal/deploy"
	"github.com/bjulian5/promote/internal/ui"
)

// Command shows the pending pull requests without deploying
type Command struct {
	// Flags
	Table bool

	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "review <project>",
		Short: "Show the pull requests on staging but not in production",
		Long: `List the merged pull requests that are on staging but not in production.
Nothing is deployed.

Example:
  promote review api
  promote review api --table`,
		Args: cobra.ArbitraryArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			opts := common.FlagOptions(cobraCmd)
			opts.Table = c.Table

			var err error
			c.Clients, err = common.InitClients(opts)
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run(cobraCmd.Context(), args)
		},
	}

	command.Flags().BoolVar(&c.Table, "table", false, "Show the pull requests as a table")

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context, args []string) error {
	allowed, err := common.AllowedProjects(ctx, c.Clients.Config, c.Clients.GH)
	if err != nil {
		return err
	}
	project, err := common.ResolveProject(args, allowed, nil)
	if err != nil {
		return err
	}

	ui.Header("Pull requests on staging for " + project)
	report, err := c.Clients.Runner.Review(ctx, project)
	if err != nil {
		return err
	}

	if report.Outcome == deploy.NothingToDeploy {
		ui.Info("Production is the same as staging. Nothing to deploy.")
		return nil
	}
	ui.Print(ui.Dim("Run 'promote deploy " + project + "' to deploy these changes."))
	return nil
}
