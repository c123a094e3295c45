package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/ssargent/gamehdr/pkg/config"
	"github.com/ssargent/gamehdr/pkg/logging"
	"github.com/ssargent/gamehdr/pkg/storage"
	"github.com/ssargent/gamehdr/pkg/store"
)

const (
	outputText = "text"
	outputJSON = "json"

	// skipConfig marks commands that run before a config file exists
	skipConfig = "skip-config"
)

// app carries state resolved once per invocation by the root command
type app struct {
	configPath string
	dataDir    string
	logLevel   string
	output     string

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCmd builds the complete gamehdr command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "gamehdr",
		Short: "gamehdr - one-byte game header codec",
		Long: `gamehdr packs a game header (rating mode, time control and a game
count of 0-15) into a single byte and back.

Besides the codec it keeps an append-only header log, stores named header
batches and serves both over a REST API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Config file (default is "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&a.dataDir, "data-dir", "d", "", "Data directory, overrides data_dir from the config")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level, overrides logging.level from the config")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "Output format: text or json")

	rootCmd.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newAppendCmd(a),
		newDumpCmd(a),
		newStatsCmd(a),
		newVerifyCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
		newInitCmd(a),
	)

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// load resolves the configuration, applies flag overrides and builds the logger
func (a *app) load(cmd *cobra.Command) error {
	if a.output != outputText && a.output != outputJSON {
		return fmt.Errorf("unknown output format %q (want text or json)", a.output)
	}

	cfg := config.DefaultConfig()
	if cmd.Annotations[skipConfig] == "" {
		switch {
		case a.configPath != "":
			loaded, err := config.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		case config.ConfigExists(config.GetDefaultConfigPath()):
			loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
			if err != nil {
				return err
			}
			cfg = loaded
		}
	}

	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// openLog opens the header log in the configured data directory
func (a *app) openLog() (*store.HeaderLog, error) {
	if err := os.MkdirAll(a.cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	headerLog, err := store.NewHeaderLog(store.HeaderLogConfig{
		DataDir:       a.cfg.DataDir,
		FsyncInterval: a.cfg.Storage.FsyncInterval,
		BufferSize:    a.cfg.Storage.BufferSize,
		Logger:        &a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header log: %w", err)
	}

	recovery, err := headerLog.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open header log: %w", err)
	}
	if recovery.BytesTruncated > 0 {
		a.logger.Warn().
			Int64("bytes_truncated", recovery.BytesTruncated).
			Msg("recovered from header log corruption")
	}
	return headerLog, nil
}

// openBatches opens the pebble batch storage under the data directory
func (a *app) openBatches() (*storage.BatchStorage, error) {
	path := filepath.Join(a.cfg.DataDir, "batches")
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("failed to create batch dir: %w", err)
	}
	return storage.NewBatchStorage(path, &a.logger)
}

// print writes v as indented JSON or hands the writer to text
func (a *app) print(cmd *cobra.Command, v interface{}, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if a.output == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}
