package projects

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/promote/internal/common"
	"github.com/bjulian5/promote/internal/ui"
)

// Command lists the deployable projects
type Command struct {
	Clients *common.Clients
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "projects",
		Short: "List the deployable projects",
		Long: `List the projects that can be reviewed and deployed.

This is the configured allow-list, or every repository of the organization
when no allow-list is configured.`,
		Args: cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Clients, err = common.InitClients(common.FlagOptions(cobraCmd))
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run(cobraCmd.Context())
		},
	}

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	allowed, err := common.AllowedProjects(ctx, c.Clients.Config, c.Clients.GH)
	if err != nil {
		return err
	}
	if len(allowed) == 0 {
		ui.Info("No projects available.")
		return nil
	}

	ui.Header("Projects of " + c.Clients.Config.Organization)
	ui.Print(ui.RenderProjectTable(allowed))
	return nil
}
