package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/auditor/internal/domain"
	m "github.com/mouse-blink/auditor/internal/model"
)

var viewFailOnFlag string

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the last saved report",
		Long:  "View the most recent analysis report from a reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			args := domain.ViewArgs{Reports: m.Path(reportsOutputDirFlag)}

			if viewFailOnFlag != "" {
				sev, err := m.ParseSeverity(viewFailOnFlag)
				if err != nil {
					return err
				}

				args.FailOn = sev
			}

			return workflow.View(args)
		},
	}
	cmd.Flags().StringVar(&viewFailOnFlag, "fail-on", "", "exit non-zero when a saved finding reaches this severity")

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
