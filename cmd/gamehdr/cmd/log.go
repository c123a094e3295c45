package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/gamehdr/pkg/api"
	"github.com/ssargent/gamehdr/pkg/codec"
	"github.com/ssargent/gamehdr/pkg/store"
)

func newDumpCmd(a *app) *cobra.Command {
	var start int64
	var limit int

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "List headers in the header log",
		Long: `List headers in the header log, one per line with index, byte and header.

Examples:
  gamehdr dump
  gamehdr dump --start 100 --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if start < 0 {
				return fmt.Errorf("--start must not be negative")
			}

			headerLog, err := a.openLog()
			if err != nil {
				return err
			}
			defer headerLog.Close()

			headers, err := headerLog.Scan(start, limit)
			if err != nil {
				return err
			}

			entries := make([]api.LogEntry, 0, len(headers))
			for i, h := range headers {
				b, _ := h.Pack()
				entries = append(entries, api.LogEntry{Index: start + int64(i), PackedHeader: api.NewPackedHeader(h, b)})
			}

			return a.print(cmd, entries, func(w io.Writer) {
				for _, e := range entries {
					fmt.Fprintf(w, "%d\t%s\t%s\n", e.Index, e.Hex, e.Header)
				}
			})
		},
	}

	cmd.Flags().Int64Var(&start, "start", 0, "Index of the first header")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of headers (0 for all)")

	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show header log statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			headerLog, err := a.openLog()
			if err != nil {
				return err
			}
			defer headerLog.Close()

			stats, err := headerLog.Stats()
			if err != nil {
				return err
			}

			return a.print(cmd, stats, func(w io.Writer) {
				fmt.Fprintf(w, "Headers: %d\n", stats.Headers)
				fmt.Fprintf(w, "Games:   %d\n", stats.Games)
				fmt.Fprintf(w, "Size:    %d bytes\n", stats.SizeBytes)
				fmt.Fprintln(w, "By speed:")
				for _, s := range codec.Speeds() {
					fmt.Fprintf(w, "  %-15s %d\n", s, stats.BySpeed[s.String()])
				}
				fmt.Fprintln(w, "By mode:")
				for _, m := range []codec.Mode{codec.Rated, codec.Casual} {
					fmt.Fprintf(w, "  %-15s %d\n", m, stats.ByMode[m.String()])
				}
			})
		},
	}
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Validate the header log and truncate any corrupt tail",
		Long: `Validate every byte of the header log. The log is truncated at the
first byte that does not decode, so later appends start from a clean tail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.cfg.DataDir, 0750); err != nil {
				return fmt.Errorf("failed to create data dir: %w", err)
			}

			headerLog, err := store.NewHeaderLog(store.HeaderLogConfig{
				DataDir: a.cfg.DataDir,
				Logger:  &a.logger,
			})
			if err != nil {
				return err
			}

			result, err := headerLog.Open()
			if err != nil {
				return err
			}
			defer headerLog.Close()

			return a.print(cmd, result, func(w io.Writer) {
				fmt.Fprintf(w, "Log:               %s\n", headerLog.Path())
				fmt.Fprintf(w, "Headers validated: %d\n", result.HeadersValidated)
				fmt.Fprintf(w, "Bytes truncated:   %d\n", result.BytesTruncated)
				fmt.Fprintf(w, "Size before:       %d\n", result.FileSizeBefore)
				fmt.Fprintf(w, "Size after:        %d\n", result.FileSizeAfter)
				fmt.Fprintf(w, "Took:              %s\n", result.RecoveryTime)
			})
		},
	}
}
