package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/datalift/datalift/internal/loader"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Load a data file and print its first rows",
	Long: `Load a tabular data file and print its first rows without uploading
anything.

Examples:
  # Show the first 10 rows of a CSV file
  datalift preview -f data.csv

  # Show the first 5 rows of an Excel sheet
  datalift preview -f results.xlsx --sheet Sheet2 -n 5`,
	RunE: runPreview,
}

var (
	previewFile  string
	previewSheet string
	previewRows  int
)

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewFile, "file", "f", "", "Path to the data file")
	previewCmd.Flags().StringVar(&previewSheet, "sheet", "", "Sheet name if the file is an Excel workbook")
	previewCmd.Flags().IntVarP(&previewRows, "rows", "n", 10, "Number of rows to show")
	previewCmd.MarkFlagRequired("file")
}

func runPreview(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	ld := loader.New(logger)
	tbl, err := ld.Load(previewFile, previewSheet)
	if err != nil {
		return err
	}

	head := tbl.Head(previewRows)

	tw := NewTabWriter(os.Stdout)
	fmt.Fprintln(tw, strings.Join(head.Columns, "\t"))
	for _, row := range head.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	cmd.Printf("\nShowing %d of %d rows (%d columns)\n", head.NumRows(), tbl.NumRows(), tbl.NumCols())
	return nil
}
