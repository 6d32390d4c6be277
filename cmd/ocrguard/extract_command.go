package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// extractOutput is the per-file JSON shape for --json output.
type extractOutput struct {
	Path      string `json:"path"`
	Text      string `json:"text,omitempty"`
	Succeeded bool   `json:"succeeded"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		fastMode   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "extract <image> [image...]",
		Short: "Extract text from images",
		Long: `Extract text from one or more image files with timeout protection.
The default profile favors accuracy on document-style images; --fast
trades accuracy for latency and suits screen captures.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := ctx.newExtractor(fastMode)
			if err != nil {
				return err
			}

			outputs := make([]extractOutput, 0, len(args))
			misses := 0
			for _, path := range args {
				res := ex.ExtractPath(context.Background(), path)
				out := extractOutput{
					Path:      path,
					Text:      res.Text,
					Succeeded: res.Succeeded,
					ElapsedMS: res.Elapsed.Milliseconds(),
				}
				if res.Err != nil {
					out.Error = res.Err.Error()
				}
				if !res.Found() {
					misses++
				}
				outputs = append(outputs, out)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(outputs); err != nil {
					return err
				}
			} else {
				printExtractOutputs(cmd, outputs)
			}

			if misses == len(args) {
				return fmt.Errorf("no text extracted from %d image(s)", len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fastMode, "fast", false, "Use the latency-first profile")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")

	return cmd
}

func printExtractOutputs(cmd *cobra.Command, outputs []extractOutput) {
	for _, out := range outputs {
		if len(outputs) > 1 {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s (%dms)\n", out.Path, out.ElapsedMS)
		}
		switch {
		case out.Error != "":
			fmt.Fprintf(os.Stderr, "%s: %s\n", out.Path, out.Error)
		case out.Text == "":
			fmt.Fprintf(os.Stderr, "%s: no text found\n", out.Path)
		default:
			fmt.Fprintln(cmd.OutOrStdout(), out.Text)
		}
	}
}
