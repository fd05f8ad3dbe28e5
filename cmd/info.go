package cmd

import (
	"fmt"

	"github.com/harlequix/secded/internal/encoding"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var showPositions bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the frame layout for the current buffer size",
	Args:  cobra.NoArgs,
	RunE:  info,
}

func init() {
	infoCmd.Flags().BoolVar(&showPositions, "positions", false, "list the role of every bit position")
	rootCmd.AddCommand(infoCmd)
}

func info(cmd *cobra.Command, args []string) error {
	layout, err := encoding.NewLayout(current.BlockSize)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.SetTitle("Layout for %d byte blocks", layout.BlockSize)
	t.AppendHeader(table.Row{"Property", "Value"})
	t.AppendRows([]table.Row{
		{"data bits", layout.DataBits},
		{"parity bits", layout.ParityBits},
		{"total bits", layout.TotalBits},
		{"frame bytes", layout.OutputBytes},
		{"overhead", fmt.Sprintf("%.1f%%", 100*float64(layout.OutputBytes-layout.BlockSize)/float64(layout.BlockSize))},
	})
	if legacy := encoding.LegacyParityBits(layout.DataBits); legacy != layout.ParityBits {
		t.AppendRow(table.Row{"floor(log2)+1 parity bits", fmt.Sprintf("%d (too few)", legacy)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()

	if !showPositions {
		return nil
	}
	p := table.NewWriter()
	p.SetOutputMirror(cmd.OutOrStdout())
	p.SetStyle(table.StyleLight)
	p.AppendHeader(table.Row{"Position", "Role", "Covered by"})
	for pos := 0; pos < layout.TotalBits; pos++ {
		p.AppendRow(table.Row{pos, layout.Role(pos), coveredBy(layout, pos)})
	}
	p.Render()
	return nil
}

func coveredBy(layout *encoding.Layout, pos int) string {
	switch layout.Role(pos) {
	case "global":
		return "-"
	case "parity":
		return fmt.Sprintf("C%d", pos)
	}
	out := ""
	for _, parity := range layout.ParityPositions() {
		if pos&parity != 0 {
			if out != "" {
				out += " "
			}
			out += fmt.Sprintf("C%d", parity)
		}
	}
	return out
}
