package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/parget/parget/internal/engine"
	"github.com/parget/parget/internal/output"
	"github.com/parget/parget/internal/utils"
)

func newBatchCmd() *cobra.Command {
	var listFile string

	cmd := &cobra.Command{
		Use:   "batch --file LIST_PATH",
		Short: "Download entries from a YAML list, one after another",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := utils.ReadDownloadList(listFile)
			if err != nil {
				return err
			}
			registry := engine.NewRegistry()
			var failed int
			for _, entry := range entries {
				err := runDownload(cmd.Context(), registry, uuid.NewString(), entry.URL, entry.OutputPath)
				switch {
				case err == nil:
				case errors.Is(err, engine.ErrPaused):
					// A pause applies to the whole batch run.
					return nil
				default:
					failed++
				}
			}
			if failed > 0 {
				output.PrintError(fmt.Sprintf("%d of %d downloads failed", failed, len(entries)))
				return fmt.Errorf("%d downloads failed", failed)
			}
			output.PrintSuccess(fmt.Sprintf("All %d downloads completed", len(entries)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&listFile, "file", "f", "", "YAML file with op/link entries")
	cmd.MarkFlagRequired("file")
	cmd.SilenceUsage = true
	return cmd
}
