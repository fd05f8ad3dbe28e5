package cmd

import (
	"bufio"
	"fmt"

	"github.com/harlequix/secded/internal/encoding"
	"github.com/harlequix/secded/protocol"
	"github.com/harlequix/secded/secded"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [input] [output]",
	Short: "Decode Hamming SECDED frames back into data",
	Long: `Decode reads frames sized for --buffer-size, corrects single bit errors
and reports double bit errors. The exit status is 2 when any block had a
double error, its data is written anyway unless --abort is given.`,
	Args: cobra.MaximumNArgs(2),
	RunE: decode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func decode(cmd *cobra.Command, args []string) error {
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
	decoder := secded.NewDecoder(codec, current.Workers, current.DecodingOptions())
	w := bufio.NewWriter(out)
	report, err := decoder.Decode(cmd.Context(), protocol.NewFrameReader(in, decoder.FrameSize()), w)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	logger.WithField("stats", report.Stats.String()).WithField("sha3", report.Digest).Info("decoding finished")
	return untrusted(report, err)
}

// untrusted turns double errors into exit status 2.
func untrusted(report secded.DecodeReport, err error) error {
	if err != nil {
		if report.Double > 0 {
			return &exitError{code: 2, err: err}
		}
		return err
	}
	if !report.Trusted() {
		return &exitError{code: 2, err: fmt.Errorf("%d of %d blocks had double errors", report.Double, report.Blocks)}
	}
	return nil
}
