package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	verboseFlag   bool
	configFlag    string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "p",
	Short: "Interactive Perforce helper",
	Long: `p wraps everyday Perforce chores in small interactive pickers drawn in
place inside your shell: choose opened files to shelve into a new
changelist, unshelve changelists p created, and page through annotations.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Root returns the root command for fang.Execute.
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log p4 invocations to stderr")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default is $XDG_CONFIG_HOME/p/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "text", "diagnostic log format on stderr: text or json")

	rootCmd.AddCommand(openedCmd)
	rootCmd.AddCommand(shelveCmd)
	rootCmd.AddCommand(unshelveCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(trackedCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(mcpCmd)
}
