package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parget/parget/internal/engine"
	"github.com/parget/parget/internal/output"
)

func newCleanCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "clean --output OUTPUT_PATH",
		Short: "Remove the persisted state file for an output path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.RemoveState(outputPath); err != nil {
				output.PrintError("Error removing state file")
				return err
			}
			output.PrintSuccess(fmt.Sprintf("Removed %s", engine.StateFilePath(outputPath)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path the state belongs to")
	cmd.MarkFlagRequired("output")
	cmd.SilenceUsage = true
	return cmd
}
