package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-press/internal/paper"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List supported paper sizes",
	Long: `List the supported paper sizes with their portrait and landscape
dimensions, point sizes, margin limits and the content box left for
photos at a given margin.

Example:
  photo-press papers
  photo-press papers --margin 25`,
	RunE: runPapers,
}

func init() {
	rootCmd.AddCommand(papersCmd)
	papersCmd.Flags().Float64("margin", paper.DefaultMarginMM, "Margin in millimetres used for the content box column")
}

func runPapers(cmd *cobra.Command, args []string) error {
	margin := mustGetFloat64(cmd, "margin")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tPORTRAIT\tLANDSCAPE\tPOINTS\tMAX MARGIN\tCONTENT BOX")
	for _, size := range paper.Sizes() {
		width, height := size.DimensionsMM()
		landscapeW, landscapeH := paper.PageDimensionsMM(size, paper.Landscape)
		clamped := paper.ClampMarginMM(margin, width, height)
		contentW, contentH := paper.ContentBoxMM(width, height, clamped)
		fmt.Fprintf(w, "%s\t%.1f x %.1f mm\t%.1f x %.1f mm\t%d x %d pt\t%.0f mm\t%.1f x %.1f mm\n",
			size,
			width, height,
			landscapeW, landscapeH,
			paper.MillimetresToPoints(width), paper.MillimetresToPoints(height),
			paper.MaxMarginMM(width, height),
			contentW, contentH,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nContent box computed for a %.1f mm margin\n", margin)
	return nil
}
