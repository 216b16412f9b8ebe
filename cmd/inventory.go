package cmd

import (
	"fmt"
	"time"

	"github.com/openhvx/hvxctl/internal/adapters/render/inventory"
	"github.com/openhvx/hvxctl/internal/application"
	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/spf13/cobra"
)

func newInventoryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "inventory",
		Short:             "View and reconcile the VM inventory",
		PersistentPreRunE: app.requireSession(domain.RoleGlobalAdmin),
	}

	cmd.AddCommand(newInventoryShowCmd(app), newInventoryApplyCmd(app), newInventoryWatchCmd(app))

	return cmd
}

func newInventoryShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the reconciled inventory snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := app.invRepo.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load inventory snapshot: %w", err)
			}

			if asJSON {
				return printJSON(cmd, rows)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), inventory.Render(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newInventoryApplyCmd(app *app) *cobra.Command {
	var interval time.Duration
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "apply <task-id>",
		Short: "Wait for a task and merge its result into the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rows, err := app.invRepo.Load(ctx)
			if err != nil {
				return fmt.Errorf("load inventory snapshot: %w", err)
			}
			app.inventory.Replace(rows)

			result, err := waitTask(cmd, app, args[0], application.WaitOptions{Interval: interval, Timeout: timeout})
			if err != nil {
				return err
			}
			app.inventory.ApplyTaskResult(result)

			if err := app.invRepo.Save(ctx, app.inventory.Rows()); err != nil {
				return fmt.Errorf("save inventory snapshot: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), inventory.Render(app.inventory.Rows()))
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", application.DefaultPollInterval, "Poll interval")
	cmd.Flags().DurationVar(&timeout, "timeout", application.DefaultPollTimeout, "Poll deadline")

	return cmd
}

func newInventoryWatchCmd(app *app) *cobra.Command {
	var interval time.Duration
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "watch <task-id>",
		Short: "Follow a task's status transitions and merge its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			rows, err := app.invRepo.Load(ctx)
			if err != nil {
				return fmt.Errorf("load inventory snapshot: %w", err)
			}
			app.inventory.Replace(rows)

			result, err := app.poller.Wait(ctx, id, application.WaitOptions{
				Interval: interval,
				Timeout:  timeout,
				OnStatus: func(status string) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "task %s: %s\n", id, status)
				},
			})
			if err != nil {
				return err
			}
			app.inventory.ApplyTaskResult(result)

			if err := app.invRepo.Save(ctx, app.inventory.Rows()); err != nil {
				return fmt.Errorf("save inventory snapshot: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), inventory.Render(app.inventory.Rows()))
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", application.DefaultPollInterval, "Poll interval")
	cmd.Flags().DurationVar(&timeout, "timeout", application.DefaultPollTimeout, "Poll deadline")

	return cmd
}
