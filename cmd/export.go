package main

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an annotated CSV to an Excel workbook",
	Long:  "Converts a pipeline output CSV (matched or scored) into an .xlsx workbook for handoff to the outreach team.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		sheetName, _ := cmd.Flags().GetString("sheet")

		f, err := os.Open(input)
		if err != nil {
			return eris.Wrapf(err, "export: open %s", input)
		}
		defer f.Close() //nolint:errcheck

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1

		wb := xlsx.NewFile()
		sheet, err := wb.AddSheet(sheetName)
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", sheetName)
		}

		rows := 0
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return eris.Wrapf(err, "export: read %s", input)
			}
			row := sheet.AddRow()
			for _, value := range record {
				row.AddCell().Value = value
			}
			rows++
		}

		if err := wb.Save(output); err != nil {
			return eris.Wrapf(err, "export: save %s", output)
		}

		zap.L().Info("export complete",
			zap.Int("rows", rows),
			zap.String("input", input),
			zap.String("output", output),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("input", "", "path to pipeline output CSV (required)")
	exportCmd.Flags().String("output", "outreach.xlsx", "path to write the workbook")
	exportCmd.Flags().String("sheet", "Leads", "worksheet name")
	_ = exportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(exportCmd)
}
