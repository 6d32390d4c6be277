package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"ocrguard/internal/extract"
)

// batchTextColumnWidth caps the text column so one verbose result does
// not blow out the table.
const batchTextColumnWidth = 60

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		fastMode   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "batch <image> [image...]",
		Short: "Extract text from a sequence of images",
		Long: `Extract text from each image in order. A timeout or failure on one
image is recorded in its row and processing continues with the next,
so a batch always yields one result per input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := extract.NewBatch(ctx.cfg.BatchTimeoutDuration(), ctx.extractOptions())
			if err != nil {
				return err
			}

			results := batch.ProcessPaths(context.Background(), args, fastMode)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			renderBatchTable(cmd, args, results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fastMode, "fast", false, "Use the latency-first profile")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit results as JSON")

	return cmd
}

func renderBatchTable(cmd *cobra.Command, paths []string, results []extract.BatchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "File", "Status", "Text"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Text", WidthMax: batchTextColumnWidth},
	})

	succeeded := 0
	for _, res := range results {
		status := text.FgRed.Sprint("miss")
		cell := res.Error
		if res.Succeeded {
			status = text.FgGreen.Sprint("ok")
			cell = res.Text
			succeeded++
		}
		t.AppendRow(table.Row{res.Index, paths[res.Index], status, cell})
	}
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d/%d succeeded", succeeded, len(results))})
	t.Render()
}
