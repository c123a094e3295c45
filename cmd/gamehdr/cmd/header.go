package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/gamehdr/pkg/api"
	"github.com/ssargent/gamehdr/pkg/codec"
)

// headerFlags binds --mode, --speed and --games on a command
type headerFlags struct {
	mode  string
	speed string
	games uint8
}

func (f *headerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", codec.Casual.String(), "Rating mode: rated or casual")
	cmd.Flags().StringVarP(&f.speed, "speed", "s", "", "Time control: ultrabullet, bullet, blitz, rapid, classical or correspondence")
	cmd.Flags().Uint8VarP(&f.games, "games", "g", 0, "Number of games (0-15)")
	_ = cmd.MarkFlagRequired("speed")
}

func (f *headerFlags) header() (codec.Header, error) {
	mode, err := codec.ParseMode(f.mode)
	if err != nil {
		return codec.Header{}, err
	}
	speed, err := codec.ParseSpeed(f.speed)
	if err != nil {
		return codec.Header{}, err
	}
	return codec.Header{Mode: mode, Speed: speed, Games: f.games}, nil
}

// parseByte accepts decimal, 0x hex, 0o octal and 0b binary values
func parseByte(raw string) (byte, error) {
	v, err := strconv.ParseUint(raw, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte value %q", raw)
	}
	return byte(v), nil
}

func newEncodeCmd(a *app) *cobra.Command {
	var flags headerFlags

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Pack a header into its byte",
		Long: `Pack a game header into a single byte.

Example:
  gamehdr encode --mode rated --speed correspondence --games 15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := flags.header()
			if err != nil {
				return err
			}

			b, err := codec.NewHeaderCodec().Encode(h)
			if err != nil {
				return err
			}

			packed := api.NewPackedHeader(h, b)
			return a.print(cmd, packed, func(w io.Writer) {
				fmt.Fprintf(w, "%d %s %s\n", packed.Byte, packed.Hex, packed.Binary)
			})
		},
	}
	flags.register(cmd)

	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <value>",
		Short: "Unpack a byte into its header",
		Long: `Unpack a single byte into a game header. The value may be given in
decimal, hex (0x), octal (0o) or binary (0b).

Examples:
  gamehdr decode 251
  gamehdr decode 0x34`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseByte(args[0])
			if err != nil {
				return err
			}

			h, err := codec.NewHeaderCodec().Decode(b)
			if err != nil {
				return err
			}

			return a.print(cmd, api.NewPackedHeader(h, b), func(w io.Writer) {
				fmt.Fprintln(w, h)
			})
		},
	}
}

func newAppendCmd(a *app) *cobra.Command {
	var flags headerFlags

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append a header to the header log",
		Long: `Append a game header to the header log in the data directory.

Example:
  gamehdr append --mode rated --speed blitz --games 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := flags.header()
			if err != nil {
				return err
			}
			b, err := h.Pack()
			if err != nil {
				return err
			}

			headerLog, err := a.openLog()
			if err != nil {
				return err
			}
			defer headerLog.Close()

			index, err := headerLog.Append(h)
			if err != nil {
				return err
			}

			entry := api.LogEntry{Index: index, PackedHeader: api.NewPackedHeader(h, b)}
			return a.print(cmd, entry, func(w io.Writer) {
				fmt.Fprintf(w, "Appended header %d: %s (%s)\n", index, h, entry.Hex)
			})
		},
	}
	flags.register(cmd)

	return cmd
}
