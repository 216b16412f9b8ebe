package cmd

import (
	"github.com/openhvx/hvxctl/internal/adapters/httpapi"
	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/spf13/cobra"
)

func newTenantCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "tenant",
		Short:             "Manage tenants and their quotas",
		PersistentPreRunE: app.requireSession(domain.RoleGlobalAdmin),
	}

	cmd.AddCommand(
		newTenantListCmd(app),
		newTenantCreateCmd(app),
		newTenantUpdateCmd(app),
		newTenantDeleteCmd(app),
		newTenantQuotasCmd(app),
	)

	return cmd
}

func newTenantListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tenants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenants, err := app.tenants.List(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return printJSON(cmd, tenants)
		},
	}
}

// quotaFlags registers the flat quota limit flags and returns a builder
// that collects the ones the caller actually set.
func quotaFlags(cmd *cobra.Command) func() *domain.QuotaLimits {
	var cpu, memoryMB, storageMB, vmCount, networkCount int64

	cmd.Flags().Int64Var(&cpu, "quota-cpu", 0, "CPU quota limit")
	cmd.Flags().Int64Var(&memoryMB, "quota-memory-mb", 0, "Memory quota limit (MB)")
	cmd.Flags().Int64Var(&storageMB, "quota-storage-mb", 0, "Storage quota limit (MB)")
	cmd.Flags().Int64Var(&vmCount, "quota-vm-count", 0, "VM count quota limit")
	cmd.Flags().Int64Var(&networkCount, "quota-network-count", 0, "Network count quota limit")

	return func() *domain.QuotaLimits {
		limits := &domain.QuotaLimits{}
		set := false
		if cmd.Flags().Changed("quota-cpu") {
			limits.CPU = &cpu
			set = true
		}
		if cmd.Flags().Changed("quota-memory-mb") {
			limits.MemoryMB = &memoryMB
			set = true
		}
		if cmd.Flags().Changed("quota-storage-mb") {
			limits.StorageMB = &storageMB
			set = true
		}
		if cmd.Flags().Changed("quota-vm-count") {
			limits.VMCount = &vmCount
			set = true
		}
		if cmd.Flags().Changed("quota-network-count") {
			limits.NetworkCount = &networkCount
			set = true
		}
		if !set {
			return nil
		}
		return limits
	}
}

func newTenantCreateCmd(app *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant",
		Args:  cobra.NoArgs,
	}

	limits := quotaFlags(cmd)
	cmd.RunE = func(c *cobra.Command, _ []string) error {
		tenant, err := app.tenants.Create(c.Context(), httpapi.CreateTenantRequest{
			Name:   name,
			Quotas: limits(),
		})
		if err != nil {
			return err
		}
		return printJSON(c, tenant)
	}

	cmd.Flags().StringVar(&name, "name", "", "Tenant name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTenantUpdateCmd(app *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "update <tenant-id>",
		Short: "Update a tenant",
		Args:  cobra.ExactArgs(1),
	}

	limits := quotaFlags(cmd)
	cmd.RunE = func(c *cobra.Command, args []string) error {
		tenant, err := app.tenants.Update(c.Context(), args[0], httpapi.CreateTenantRequest{
			Name:   name,
			Quotas: limits(),
		})
		if err != nil {
			return err
		}
		return printJSON(c, tenant)
	}

	cmd.Flags().StringVar(&name, "name", "", "Tenant name")

	return cmd
}

func newTenantDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tenant-id>",
		Short: "Delete a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.tenants.Delete(cmd.Context(), args[0])
		},
	}
}

func newTenantQuotasCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotas",
		Short: "Inspect and adjust tenant quotas",
	}

	show := &cobra.Command{
		Use:   "show <tenant-id>",
		Short: "Show quota limits and usage",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			quotas, err := app.tenants.Quotas(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(c, quotas)
		},
	}

	set := &cobra.Command{
		Use:   "set <tenant-id>",
		Short: "Update quota limits",
		Args:  cobra.ExactArgs(1),
	}
	limits := quotaFlags(set)
	set.RunE = func(c *cobra.Command, args []string) error {
		l := limits()
		if l == nil {
			l = &domain.QuotaLimits{}
		}
		quotas, err := app.tenants.PatchQuotaLimits(c.Context(), args[0], *l)
		if err != nil {
			return err
		}
		return printJSON(c, quotas)
	}

	var fullInventory bool
	recalc := &cobra.Command{
		Use:   "recalculate <tenant-id>",
		Short: "Rebuild quota usage from the live inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			quotas, err := app.tenants.RecalculateQuotas(c.Context(), args[0], fullInventory)
			if err != nil {
				return err
			}
			return printJSON(c, quotas)
		},
	}
	recalc.Flags().BoolVar(&fullInventory, "full-inventory", false, "Recalculate against the full inventory")

	cmd.AddCommand(show, set, recalc)

	return cmd
}
