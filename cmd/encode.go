package cmd

import (
	"bufio"

	"github.com/harlequix/secded/internal/encoding"
	"github.com/harlequix/secded/protocol"
	"github.com/harlequix/secded/secded"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode [input] [output]",
	Short: "Encode a file into Hamming SECDED frames",
	Long: `Encode reads the input in blocks of --buffer-size bytes and writes one
frame per block. A short final block is padded with zero bytes. Input
defaults to stdin and output to stdout.`,
	Args: cobra.MaximumNArgs(2),
	RunE: encode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}

func encode(cmd *cobra.Command, args []string) error {
	in, err := openInput(cmd, args, 0)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := openOutput(cmd, args, 1)
	if err != nil {
		return err
	}
	defer out.Close()

	codec, err := encoding.NewCodec(current.BlockSize)
	if err != nil {
		return err
	}
	encoder := secded.NewEncoder(codec, current.Workers, current.Level())
	w := bufio.NewWriter(out)
	stats, err := encoder.Encode(cmd.Context(), bufio.NewReader(in), protocol.NewFrameWriter(w, encoder.FrameSize()))
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	logger.WithField("blocks", stats.Blocks).WithField("padding", stats.Padding).WithField("sha3", stats.Digest).Info("encoding finished")
	return out.Close()
}
