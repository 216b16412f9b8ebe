package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openhvx/hvxctl/internal/application"
	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "task",
		Short:             "Submit and follow gateway tasks",
		PersistentPreRunE: app.requireSession(domain.RoleGlobalAdmin),
	}

	cmd.AddCommand(newTaskSubmitCmd(app), newTaskWaitCmd(app), newTaskShowCmd(app))

	return cmd
}

func newTaskSubmitCmd(app *app) *cobra.Command {
	var action string
	var agentID string
	var refID string
	var tenantID string
	var params map[string]string
	var wait bool
	var interval time.Duration
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Enqueue a task on the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := domain.TaskRequest{
				Action:   action,
				AgentID:  agentID,
				RefID:    refID,
				TenantID: tenantID,
			}
			if len(params) > 0 {
				req.Params = make(map[string]any, len(params))
				for k, v := range params {
					req.Params[k] = v
				}
			}

			task, err := app.tasks.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}

			id := task.Ref()
			if id == "" {
				return fmt.Errorf("submit acknowledged without a task id")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s enqueued\n", id)

			if !wait {
				return nil
			}
			return waitAndPrint(cmd, app, id, application.WaitOptions{Interval: interval, Timeout: timeout})
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Task action (e.g. vm.start, vm.poweroff)")
	cmd.Flags().StringVar(&agentID, "agent", "", "Target agent id")
	cmd.Flags().StringVar(&refID, "ref", "", "Target resource reference id")
	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant scope")
	cmd.Flags().StringToStringVar(&params, "param", nil, "Extra task parameters (key=value)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll the task to completion")
	cmd.Flags().DurationVar(&interval, "interval", application.DefaultPollInterval, "Poll interval")
	cmd.Flags().DurationVar(&timeout, "timeout", application.DefaultPollTimeout, "Poll deadline")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}

func newTaskWaitCmd(app *app) *cobra.Command {
	var interval time.Duration
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait <task-id>",
		Short: "Poll a task until it reaches a terminal state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return waitAndPrint(cmd, app, args[0], application.WaitOptions{Interval: interval, Timeout: timeout})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", application.DefaultPollInterval, "Poll interval")
	cmd.Flags().DurationVar(&timeout, "timeout", application.DefaultPollTimeout, "Poll deadline")

	return cmd
}

func newTaskShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Fetch a task document by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.tasks.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, doc)
		},
	}
}

// waitTask polls behind a spinner and returns the task's result
// payload.
func waitTask(cmd *cobra.Command, app *app, id string, opts application.WaitOptions) (json.RawMessage, error) {
	var result json.RawMessage
	err := runTaskWaitSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Waiting for task %s...", id), func(ctx context.Context) error {
		var waitErr error
		result, waitErr = app.poller.Wait(ctx, id, opts)
		return waitErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func waitAndPrint(cmd *cobra.Command, app *app, id string, opts application.WaitOptions) error {
	result, err := waitTask(cmd, app, id, opts)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}
