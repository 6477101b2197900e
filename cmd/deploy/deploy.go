package deploy

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/promote/internal/common"
	"github.com/bjulian5/promote/internal/deploy"
	"github.com/bjulian5/promote/internal/ui"
)

// Command reviews the pending pull requests and deploys them after approval
type Command struct {
	// Flags
	Table       bool // render the pull requests as a table
	Interactive bool // pick the project with a fuzzy finder when none is given

	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "deploy [project]",
		Short: "Review, approve and deploy staging to production",
		Long: `List the merged pull requests that are on staging but not in production,
ask for approval, then start the production deployment workflow.

Only the exact approval token continues the deployment; anything else cancels it.

Example:
  promote deploy api                  # Deploy the api project
  promote deploy api --table          # Show the pull requests as a table
  promote deploy --interactive        # Pick the project from a list`,
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
	command.Flags().BoolVarP(&c.Interactive, "interactive", "i", false, "Pick the project interactively when none is given")

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context, args []string) error {
	allowed, err := common.AllowedProjects(ctx, c.Clients.Config, c.Clients.GH)
	if err != nil {
		return err
	}

	var selector common.Selector
	if c.Interactive {
		selector = ui.SelectProject
	}
	project, err := common.ResolveProject(args, allowed, selector)
	if err != nil {
		return err
	}

	ui.Header("Pull requests on staging for " + project)
	report, err := c.Clients.Runner.Deploy(ctx, project)
	if err != nil {
		return err
	}

	switch report.Outcome {
	case deploy.NothingToDeploy:
		ui.Info("Production is the same as staging. Nothing to deploy.")
	case deploy.Deployed:
		ui.Successf("Started deployment. You can view the progress at %s", report.TrackingURL)
	}
	return nil
}
