package cmd

import (
	"fmt"
	"io"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/gamehdr/pkg/api"
	"github.com/ssargent/gamehdr/pkg/codec"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Manage stored header batches",
		Long: `Header batches are lists of packed headers stored under a KSUID in the
batch database inside the data directory.`,
	}

	cmd.AddCommand(
		newBatchCreateCmd(a),
		newBatchGetCmd(a),
		newBatchDeleteCmd(a),
		newBatchListCmd(a),
	)

	return cmd
}

func newBatchCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <byte>...",
		Short: "Store a batch of packed headers",
		Long: `Store a batch of packed header bytes. Every byte must decode.

Example:
  gamehdr batch create 0xfb 0x34 12`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := make([]byte, 0, len(args))
			for _, arg := range args {
				b, err := parseByte(arg)
				if err != nil {
					return err
				}
				data = append(data, b)
			}

			headers, err := codec.NewHeaderCodec().DecodeBatch(data)
			if err != nil {
				return err
			}

			batches, err := a.openBatches()
			if err != nil {
				return err
			}
			defer batches.Close()

			id, err := batches.Create(headers)
			if err != nil {
				return err
			}

			return a.print(cmd, api.BatchResponse{ID: id.String(), Headers: headers}, func(w io.Writer) {
				fmt.Fprintln(w, id)
			})
		},
	}
}

func newBatchGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show the headers of a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid batch id %q: %w", args[0], err)
			}

			batches, err := a.openBatches()
			if err != nil {
				return err
			}
			defer batches.Close()

			headers, err := batches.Read(id)
			if err != nil {
				return err
			}

			return a.print(cmd, api.BatchResponse{ID: id.String(), Headers: headers}, func(w io.Writer) {
				for i, h := range headers {
					b, _ := h.Pack()
					fmt.Fprintf(w, "%d\t0x%02x\t%s\n", i, b, h)
				}
			})
		},
	}
}

func newBatchDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid batch id %q: %w", args[0], err)
			}

			batches, err := a.openBatches()
			if err != nil {
				return err
			}
			defer batches.Close()

			if err := batches.Delete(id); err != nil {
				return err
			}

			return a.print(cmd, map[string]string{"deleted": id.String()}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted batch %s\n", id)
			})
		},
	}
}

func newBatchListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored batch ids, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			batches, err := a.openBatches()
			if err != nil {
				return err
			}
			defer batches.Close()

			ids, err := batches.List()
			if err != nil {
				return err
			}

			out := make([]api.BatchResponse, 0, len(ids))
			for _, id := range ids {
				out = append(out, api.BatchResponse{ID: id.String()})
			}

			return a.print(cmd, out, func(w io.Writer) {
				for _, id := range ids {
					fmt.Fprintf(w, "%s\t%s\n", id, id.Time().Format("2006-01-02 15:04:05"))
				}
			})
		},
	}
}
