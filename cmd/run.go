package cmd

import (
	"github.com/spf13/cobra"
)

var runParallelFlag int
var runAppIDFlag string
var runFailOnFlag string
var runExcludeFlags []string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Analyze application files",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd.Context(), args, runParallelFlag, runAppIDFlag, runFailOnFlag, runExcludeFlags)
		},
	}
	cmd.Flags().IntVarP(&runParallelFlag, "parallel", "p", 0, "number of documents analyzed in parallel (0 = all CPUs)")
	cmd.Flags().StringVar(&runAppIDFlag, "app-id", "", "application id to look for instead of the one in the .smd file")
	cmd.Flags().StringVar(&runFailOnFlag, "fail-on", "", "exit non-zero when a finding reaches this severity (INFO, ADVICE, WARNING, ERROR)")
	cmd.Flags().StringArrayVarP(&runExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
