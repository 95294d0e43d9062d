package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mordant-dev/mordant/internal/domain"
	m "github.com/mordant-dev/mordant/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previously stored mutation verdicts",
		Long:  "View previously stored mutation verdicts from a verdicts directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			verdictsDir := m.Path(viper.GetString(outputFlagName))

			verdicts, err := resultStore.Load(verdictsDir)
			if err != nil {
				return fmt.Errorf("load verdicts: %w", err)
			}

			ui.DisplaySummary(cmd.Context(), verdicts, domain.ScoreVerdicts(verdicts))

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
