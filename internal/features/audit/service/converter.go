package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"order-sweeper/internal/features/audit/domain"
	lookupdomain "order-sweeper/internal/features/lookup/domain"
)

var convertHeader = []string{
	"source_file",
	"order_number",
	"customer_number",
	"order_status",
	"delivery_date",
	"total_amount",
	"items",
	"raw_data",
	"timestamp",
}

// Converter rebuilds a tabular export from a directory of audit dumps,
// re-running field extraction so rule fixes apply retroactively to
// already-archived pages.
type Converter struct {
	extractor *lookupdomain.Extractor
	logger    *zap.Logger
}

// NewConverter creates a Converter. A nil extractor gets the stock rules.
func NewConverter(extractor *lookupdomain.Extractor, log *zap.Logger) *Converter {
	if extractor == nil {
		extractor = lookupdomain.NewExtractor()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{
		extractor: extractor,
		logger:    log,
	}
}

// Convert distills every dump under dumpsDir into one row and writes the
// table to outPath; a .xlsx extension selects a workbook, anything else CSV.
// It returns the number of rows written. Unreadable dumps are logged and
// skipped so one bad file never sinks a conversion.
func (c *Converter) Convert(dumpsDir, outPath string) (int, error) {
	entries, err := os.ReadDir(dumpsDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read dumps directory: %w", err)
	}

	var rows [][]string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		row, err := c.distill(filepath.Join(dumpsDir, entry.Name()), entry.Name())
		if err != nil {
			c.logger.Warn("Skipping unreadable dump",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}

	if strings.EqualFold(filepath.Ext(outPath), ".xlsx") {
		err = writeXLSXTable(outPath, convertHeader, rows)
	} else {
		err = writeCSVTable(outPath, convertHeader, rows)
	}
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (c *Converter) distill(path, name string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}
	var dump domain.Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("failed to parse dump: %w", err)
	}

	text := dump.RawText
	if text == "" && dump.HTML != "" {
		text, err = htmlToText(dump.HTML)
		if err != nil {
			return nil, fmt.Errorf("failed to distill page markup: %w", err)
		}
	}

	fields := c.extractor.Extract(text)
	orderNumber := dump.OrderNumber
	if orderNumber == "" {
		orderNumber = lookupdomain.ExtractOrderNumber(text)
	}

	return []string{
		name,
		orderNumber,
		dump.CustomerNumber,
		string(fields.Status),
		fields.DeliveryDate,
		fields.TotalAmount,
		strings.Join(fields.Items, ", "),
		text,
		dump.Timestamp,
	}, nil
}

func htmlToText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	text := doc.Find("body").Text()
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func writeCSVTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func writeXLSXTable(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	const sheet = "Converted"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, title := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
