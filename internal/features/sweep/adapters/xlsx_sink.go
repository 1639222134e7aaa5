package adapters

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"order-sweeper/internal/features/sweep/domain"
)

const xlsxSheet = "Results"

// XLSXSink implements ports.ResultSink writing an Excel workbook with the
// same column layout as the CSV export.
type XLSXSink struct {
	path string
}

// NewXLSXSink creates an XLSXSink writing to path.
func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{path: path}
}

// WriteSnapshot rewrites the workbook with a header row plus one row per result.
func (s *XLSXSink) WriteSnapshot(results []domain.OrderResult) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if index, _ := f.GetSheetIndex(xlsxSheet); index == -1 {
		if _, err := f.NewSheet(xlsxSheet); err != nil {
			return fmt.Errorf("failed to create results sheet: %w", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(xlsxSheet)
	f.SetActiveSheet(activeIndex)

	for i, title := range resultHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, title); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for rowIdx, result := range results {
		for colIdx, value := range resultRow(result) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(xlsxSheet, cell, value); err != nil {
				return fmt.Errorf("failed to write result cell: %w", err)
			}
		}
	}

	_ = f.SetColWidth(xlsxSheet, "A", "A", 16)
	_ = f.SetColWidth(xlsxSheet, "D", "F", 14)
	_ = f.SetColWidth(xlsxSheet, "G", "G", 32)
	_ = f.SetColWidth(xlsxSheet, "I", "J", 24)

	tmp := s.path + ".tmp"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace workbook: %w", err)
	}
	return nil
}

// Read parses the current workbook back into results. A missing file yields
// an empty set.
func (s *XLSXSink) Read() ([]domain.OrderResult, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read results sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	results := make([]domain.OrderResult, 0, len(rows)-1)
	for i, row := range rows[1:] {
		// Trailing empty cells are omitted by the reader.
		for len(row) < len(resultHeader) {
			row = append(row, "")
		}
		attempts := 0
		if row[7] != "" {
			if attempts, err = strconv.Atoi(row[7]); err != nil {
				return nil, fmt.Errorf("results row %d has a non-numeric attempts column: %w", i+2, err)
			}
		}
		var items []string
		if row[6] != "" {
			items = strings.Split(row[6], ", ")
		}
		results = append(results, domain.OrderResult{
			OrderNumber:     row[0],
			Status:          domain.SweepStatus(row[1]),
			MatchedCustomer: row[2],
			OrderStatus:     row[3],
			DeliveryDate:    row[4],
			TotalAmount:     row[5],
			Items:           items,
			Attempts:        attempts,
			Error:           row[8],
			Timestamp:       row[9],
		})
	}
	return results, nil
}
