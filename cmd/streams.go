package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// openInput returns the file named by args[i], or the command's stdin when
// the argument is missing or "-".
func openInput(cmd *cobra.Command, args []string, i int) (io.ReadCloser, error) {
	if len(args) <= i || args[i] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[i])
}

// openOutput is openInput for writing; files are created or truncated.
func openOutput(cmd *cobra.Command, args []string, i int) (io.WriteCloser, error) {
	if len(args) <= i || args[i] == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(args[i])
}
