package cmd

import (
	"github.com/openhvx/hvxctl/internal/adapters/httpapi"
	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/spf13/cobra"
)

func newResourcesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "resources",
		Short:             "Manage unassigned and tenant-claimed resources",
		PersistentPreRunE: app.requireSession(domain.RoleGlobalAdmin),
	}

	cmd.AddCommand(
		newResourcesUnassignedCmd(app),
		newResourcesTenantCmd(app),
		newResourcesImagesCmd(app),
	)

	return cmd
}

func newResourcesUnassignedCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unassigned",
		Short: "Work with resources not claimed by any tenant",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List unassigned resources",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			out, err := app.resources.ListUnassigned(c.Context(), nil)
			if err != nil {
				return err
			}
			return printJSON(c, out)
		},
	}

	var resourceType string
	var ids []string
	bulkDelete := &cobra.Command{
		Use:   "bulk-delete",
		Short: "Delete a set of unassigned resources",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return app.resources.BulkDeleteUnassigned(c.Context(), httpapi.ResourceSelection{
				Type: resourceType,
				IDs:  ids,
			})
		},
	}
	bulkDelete.Flags().StringVar(&resourceType, "type", "", "Resource type")
	bulkDelete.Flags().StringSliceVar(&ids, "id", nil, "Resource ids (repeatable)")
	_ = bulkDelete.MarkFlagRequired("type")
	_ = bulkDelete.MarkFlagRequired("id")

	cmd.AddCommand(list, bulkDelete)

	return cmd
}

func newResourcesTenantCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Work with a tenant's claimed resources",
	}

	list := &cobra.Command{
		Use:   "list <tenant-id>",
		Short: "List a tenant's resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			out, err := app.resources.TenantResources(c.Context(), args[0], nil)
			if err != nil {
				return err
			}
			return printJSON(c, out)
		},
	}

	var resourceType string
	var ids []string
	claim := &cobra.Command{
		Use:   "claim <tenant-id>",
		Short: "Claim unassigned resources for a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return app.resources.Claim(c.Context(), args[0], httpapi.ResourceSelection{
				Type: resourceType,
				IDs:  ids,
			})
		},
	}
	claim.Flags().StringVar(&resourceType, "type", "", "Resource type")
	claim.Flags().StringSliceVar(&ids, "id", nil, "Resource ids (repeatable)")
	_ = claim.MarkFlagRequired("type")
	_ = claim.MarkFlagRequired("id")

	release := &cobra.Command{
		Use:   "release <tenant-id> <resource-id>",
		Short: "Remove a resource from a tenant",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return app.resources.DeleteTenantResource(c.Context(), args[0], args[1])
		},
	}

	cmd.AddCommand(list, claim, release)

	return cmd
}

func newResourcesImagesCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "List available images",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			out, err := app.resources.Images(c.Context())
			if err != nil {
				return err
			}
			return printJSON(c, out)
		},
	}
}
