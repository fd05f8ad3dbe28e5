package cmd

import (
	"bufio"
	"fmt"

	"github.com/harlequix/secded/backends"
	"github.com/harlequix/secded/secded"
	"github.com/spf13/cobra"
)

var receiveCmd = &cobra.Command{
	Use:   "receive <addr> [output]",
	Short: "Receive frames from a sender and decode them",
	Long: `Receive listens on addr, accepts one sender and decodes its frames until
the end of the transfer. Output defaults to stdout. The exit status is 2
when any block had a double error.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: receive,
}

func init() {
	rootCmd.AddCommand(receiveCmd)
}

func receive(cmd *cobra.Command, args []string) error {
	out, err := openOutput(cmd, args, 1)
	if err != nil {
		return err
	}
	defer out.Close()

	backend, err := backends.New(current.Backend)
	if err != nil {
		return err
	}
	listener, err := backend.Listen(args[0])
	if err != nil {
		return err
	}
	defer listener.Close()
	logger.WithField("addr", listener.Addr().String()).WithField("backend", current.Backend).Warn("waiting for sender")

	w := bufio.NewWriter(out)
	report, err := secded.Receive(cmd.Context(), listener, w, current)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	fmt.Fprintf(cmd.OutOrStderr(), "session %s: received %d frames, %s, sha3 %s\n",
		report.Session, report.Frames, report.Stats.String(), report.Digest)
	return untrusted(report.DecodeReport, err)
}
