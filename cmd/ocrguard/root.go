package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ocrguard/internal/config"
	"ocrguard/internal/extract"
	"ocrguard/internal/guard"
)

// commandContext carries lazily-loaded configuration and the logger to
// subcommands.
type commandContext struct {
	configFlag *string
	cfg        *config.Config
	log        *zap.Logger
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	rootCmd := &cobra.Command{
		Use:   "ocrguard",
		Short: "Timeout-protected OCR text extraction",
		Long: `ocrguard extracts text from images with wall-clock timeout protection
around the Tesseract engine and best-effort cleanup of orphaned engine
processes. It offers an accuracy-first profile for documents, a
latency-first profile for screen captures, and failure-isolated batch
processing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")

	rootCmd.AddCommand(newExtractCommand(ctx))
	rootCmd.AddCommand(newBatchCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// setup loads configuration and builds the logger. Logs go to stderr:
// stdout is reserved for command output and, under serve, the MCP
// protocol.
func (c *commandContext) setup() error {
	cfg, err := config.Load(*c.configFlag)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = "console"
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	log, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	c.log = log
	return nil
}

// extractOptions wires production extraction collaborators from the
// loaded configuration.
func (c *commandContext) extractOptions() extract.Options {
	var inspector guard.ProcessInspector = guard.NopInspector{}
	if c.cfg.Cleanup.Enabled {
		inspector = guard.NewPsInspector(c.cfg.Cleanup.ProcessName)
	}
	return extract.Options{
		Inspector: inspector,
		Grace:     c.cfg.GraceDuration(),
		Logger:    c.log,
		Language:  c.cfg.OCR.Language,
	}
}

// newExtractor builds an Extractor for the configured accurate or fast
// profile.
func (c *commandContext) newExtractor(fast bool) (*extract.Extractor, error) {
	var profile extract.Profile
	if fast {
		profile = extract.Fast()
		profile.Timeout = c.cfg.FastTimeoutDuration()
	} else {
		profile = extract.Accurate()
		profile.Timeout = c.cfg.AccurateTimeoutDuration()
		profile.Enhance = c.cfg.OCR.Enhance
	}
	return extract.New(profile, c.extractOptions())
}
