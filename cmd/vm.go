package cmd

import (
	"fmt"
	"time"

	"github.com/openhvx/hvxctl/internal/adapters/render/inventory"
	"github.com/openhvx/hvxctl/internal/application"
	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/spf13/cobra"
)

func newVMCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "vm",
		Short:             "Drive VM power operations through tasks",
		PersistentPreRunE: app.requireSession(domain.RoleGlobalAdmin),
	}

	cmd.AddCommand(newVMPowerCmd(app))

	return cmd
}

func newVMPowerCmd(app *app) *cobra.Command {
	var agentID string
	var refID string
	var noWait bool
	var interval time.Duration
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:       "power <action>",
		Short:     "Request a VM power state change (start, poweroff, pause, save, ...)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"start", "poweron", "resume", "off", "poweroff", "shutdown", "pause", "suspend", "save", "restart", "reboot"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := args[0]
			ctx := cmd.Context()

			rows, err := app.invRepo.Load(ctx)
			if err != nil {
				return fmt.Errorf("load inventory snapshot: %w", err)
			}
			app.inventory.Replace(rows)

			// The requested action doubles as the optimistic state: the
			// table shows the expected end state while the task runs.
			optimistic := &domain.RowPatch{
				AgentID: agentID,
				GUID:    refID,
				ID:      refID,
				State:   domain.StateFromRequested(action),
			}

			req := domain.TaskRequest{
				Action:  "vm.power",
				AgentID: agentID,
				RefID:   refID,
				Params:  map[string]any{"requestedState": action},
			}

			taskID, err := app.inventory.SubmitAndPatch(ctx, req, optimistic)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s enqueued\n", taskID)

			if !noWait {
				result, err := waitTask(cmd, app, taskID, application.WaitOptions{Interval: interval, Timeout: timeout})
				if err != nil {
					return err
				}
				// Confirmed facts from the poll replace the optimistic
				// guess.
				app.inventory.ApplyTaskResult(result)
			}

			if err := app.invRepo.Save(ctx, app.inventory.Rows()); err != nil {
				return fmt.Errorf("save inventory snapshot: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), inventory.Render(app.inventory.Rows()))
			return nil
		},
	}

	cmd.Flags().StringVar(&agentID, "agent", "", "Agent hosting the VM")
	cmd.Flags().StringVar(&refID, "ref", "", "VM reference id (guid)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Enqueue without polling to completion")
	cmd.Flags().DurationVar(&interval, "interval", application.DefaultPollInterval, "Poll interval")
	cmd.Flags().DurationVar(&timeout, "timeout", application.DefaultPollTimeout, "Poll deadline")
	_ = cmd.MarkFlagRequired("agent")
	_ = cmd.MarkFlagRequired("ref")

	return cmd
}
