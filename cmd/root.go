package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hvxctl",
		Short:         "OpenHVX admin console client: sessions, tasks and inventory",
		Long:          "hvxctl drives the OpenHVX admin gateway from the terminal: authenticate, enqueue agent tasks and follow them to completion, and keep a reconciled view of the VM inventory.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			applyVerbosity(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newTaskCmd(app),
		newVMCmd(app),
		newInventoryCmd(app),
		newTenantCmd(app),
		newMetricsCmd(app),
		newResourcesCmd(app),
	)

	return rootCmd
}

// applyVerbosity runs in every pre-run hook; guarded command groups
// install their own PersistentPreRunE, which replaces the root's hook.
func applyVerbosity(cmd *cobra.Command) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
