package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/auditor/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List analysis rules",
		Long:  "List every analysis rule with its kind, severity and whether the configuration enables it.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Rules(domain.RulesArgs{Config: loadConfig()})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
