package cmd

import (
	"errors"
	"net/url"
	"path"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/parget/parget/internal/engine"
)

func newGetCmd() *cobra.Command {
	var outputPath string
	var downloadID string

	cmd := &cobra.Command{
		Use:   "get [URL]",
		Short: "Download a file via segmented ranged requests",
		Long:  "Download a file via segmented ranged requests. Ctrl-C pauses; rerunning the same command resumes from the persisted state.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawURL := args[0]
			if outputPath == "" {
				outputPath = deriveOutputPath(rawURL)
			}
			if downloadID == "" {
				downloadID = uuid.NewString()
			}
			registry := engine.NewRegistry()
			err := runDownload(cmd.Context(), registry, downloadID, rawURL, outputPath)
			if errors.Is(err, engine.ErrPaused) {
				// An intentional pause is a clean exit for the CLI.
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path")
	cmd.Flags().StringVarP(&downloadID, "id", "i", "", "Download identifier (default: random)")
	cmd.SilenceUsage = true
	return cmd
}

func deriveOutputPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err == nil {
		if base := path.Base(parsed.Path); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return "download"
}
