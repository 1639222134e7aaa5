// This file contains the dump conversion command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"order-sweeper/internal/core/logger"
	auditservice "order-sweeper/internal/features/audit/service"
	lookupdomain "order-sweeper/internal/features/lookup/domain"
)

var convertOut string

var convertCmd = &cobra.Command{
	Use:   "convert [dumps-dir]",
	Short: "Rebuild a tabular export from archived page dumps",
	Long: `Convert re-extracts every archived page dump into one tabular row,
distilling saved HTML back to text when the raw capture is missing and
recovering order numbers from the page content. The output format follows
the file extension (.xlsx for a workbook, CSV otherwise).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "converted_results.csv", "Output file (.csv or .xlsx)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	l := logger.Get()

	dir := cfg.Audit.Dir
	if len(args) == 1 {
		dir = args[0]
	}

	converter := auditservice.NewConverter(lookupdomain.NewExtractor(), l)
	count, err := converter.Convert(dir, convertOut)
	if err != nil {
		return err
	}

	l.Info("Conversion complete",
		zap.String("dumps_dir", dir),
		zap.String("output", convertOut),
		zap.Int("rows", count))
	fmt.Printf("Wrote %d rows to %s\n", count, convertOut)
	return nil
}
