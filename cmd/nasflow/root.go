package main

import (
	"github.com/spf13/cobra"
)

// notifyArg is the positional mode argument that enables the summary notification.
const notifyArg = "notify"

func newRootCommand() *cobra.Command {
	var configFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:   "nasflow [notify]",
		Short: "Track large media files from detection through upload completion",
		Long: "Scan the source directory for large videos, copy new ones to the upload\n" +
			"directory, and mark them complete once they appear in the completed directory.\n" +
			"Pass \"notify\" to also send the run summary to the configured webhook.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			notify := len(args) > 0 && args[0] == notifyArg
			return runWorkflow(cmd, ctx, notify)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Write machine-readable JSON output")

	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
