package cmd

import (
	"fmt"

	"github.com/harlequix/secded/backends"
	"github.com/harlequix/secded/secded"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var sendCmd = &cobra.Command{
	Use:   "send <addr> [input]",
	Short: "Send a file as frames over a noisy link",
	Long: `Send encodes the input and pushes the frames to a receiver listening on
addr, flipping bits on the way according to --noise. Input defaults to
stdin.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: send,
}

func init() {
	flags := sendCmd.Flags()
	flags.String("noise", "none", "noise strategy: none, single, double or ber")
	flags.Float64("noise-rate", 0.3, "probability of corrupting a frame (per bit for ber)")
	flags.Int64("seed", 0, "noise seed, 0 picks one from the clock")
	viper.BindPFlag("NoiseStrategy", flags.Lookup("noise"))
	viper.BindPFlag("NoiseRate", flags.Lookup("noise-rate"))
	viper.BindPFlag("NoiseSeed", flags.Lookup("seed"))
	rootCmd.AddCommand(sendCmd)
}

func send(cmd *cobra.Command, args []string) error {
	in, err := openInput(cmd, args, 1)
	if err != nil {
		return err
	}
	defer in.Close()

	backend, err := backends.New(current.Backend)
	if err != nil {
		return err
	}
	report, err := secded.Send(cmd.Context(), backend, args[0], in, current)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStderr(), "session %s: sent %d blocks, %d corrupted by noise (%d bits), sha3 %s\n",
		report.Session, report.Blocks, report.Noise.Corrupted, report.Noise.Flips, report.Digest)
	return nil
}
