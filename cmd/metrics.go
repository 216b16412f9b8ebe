package cmd

import (
	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/spf13/cobra"
)

func newMetricsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "metrics",
		Short:             "Fetch fleet metrics",
		PersistentPreRunE: app.requireSession(domain.RoleGlobalAdmin),
	}

	overview := &cobra.Command{
		Use:   "overview",
		Short: "Fleet-wide overview metrics",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			out, err := app.metrics.Overview(c.Context())
			if err != nil {
				return err
			}
			return printJSON(c, out)
		},
	}

	compute := &cobra.Command{
		Use:   "compute",
		Short: "Compute metrics",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			out, err := app.metrics.Compute(c.Context())
			if err != nil {
				return err
			}
			return printJSON(c, out)
		},
	}

	datastores := &cobra.Command{
		Use:   "datastores",
		Short: "Datastore metrics",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			out, err := app.metrics.Datastores(c.Context())
			if err != nil {
				return err
			}
			return printJSON(c, out)
		},
	}

	var agentID string
	vms := &cobra.Command{
		Use:   "vms",
		Short: "Per-VM metrics, optionally scoped to one agent",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			out, err := app.metrics.VMs(c.Context(), agentID)
			if err != nil {
				return err
			}
			return printJSON(c, out)
		},
	}
	vms.Flags().StringVar(&agentID, "agent", "", "Restrict to one agent")

	tenant := &cobra.Command{
		Use:   "tenant <tenant-id>",
		Short: "Tenant overview metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := app.metrics.TenantOverview(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(c, out)
		},
	}

	cmd.AddCommand(overview, compute, datastores, vms, tenant)

	return cmd
}
