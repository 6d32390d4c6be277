package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocrguard/internal/ocr"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ocrguard %s\n", Version)
			fmt.Fprintf(out, "  build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  git commit: %s\n", GitCommit)

			info := ocr.GetInfo()
			if info.Available {
				fmt.Fprintf(out, "  tesseract:  %s\n", info.Version)
			} else {
				fmt.Fprintf(out, "  tesseract:  unavailable (%s)\n", info.Error)
			}
		},
	}
}
