package cmd

import (
	"fmt"
	"strconv"

	"github.com/harlequix/secded/noise"
	"github.com/spf13/cobra"
)

var flipCmd = &cobra.Command{
	Use:   "flip <file> <bit>...",
	Short: "Flip bits in a file",
	Long: `Flip inverts the given bits of a file in place. Bit n is bit n%8 of byte
n/8, counting from the least significant bit, the same numbering the
frames use.`,
	Args: cobra.MinimumNArgs(2),
	RunE: flip,
}

func init() {
	rootCmd.AddCommand(flipCmd)
}

func flip(cmd *cobra.Command, args []string) error {
	path := args[0]
	for _, arg := range args[1:] {
		bit, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("bad bit %q: %w", arg, err)
		}
		if err := noise.FlipBitInFile(path, bit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Flipped bit %d in %s\n", bit, path)
	}
	return nil
}
