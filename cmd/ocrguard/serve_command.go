package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ocrguard/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve extraction tools over MCP stdio",
		Long: `Run the MCP server on stdin/stdout. Diagnostics go to stderr so
stdout carries only protocol frames.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.New(ctx.cfg, server.Options{Logger: ctx.log})
			if err != nil {
				return err
			}
			ctx.log.Info("starting MCP server",
				zap.String("language", ctx.cfg.OCR.Language),
				zap.Duration("accurate_timeout", ctx.cfg.AccurateTimeoutDuration()),
				zap.Duration("fast_timeout", ctx.cfg.FastTimeoutDuration()))
			return srv.Run()
		},
	}
}
