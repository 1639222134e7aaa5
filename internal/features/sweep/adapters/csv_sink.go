package adapters

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"order-sweeper/internal/features/sweep/domain"
)

// resultHeader is the column layout shared by the CSV and XLSX exports.
var resultHeader = []string{
	"order_number",
	"status",
	"matched_customer",
	"order_status",
	"delivery_date",
	"total_amount",
	"items",
	"attempts",
	"error",
	"timestamp",
}

func resultRow(r domain.OrderResult) []string {
	return []string{
		r.OrderNumber,
		string(r.Status),
		r.MatchedCustomer,
		r.OrderStatus,
		r.DeliveryDate,
		r.TotalAmount,
		strings.Join(r.Items, ", "),
		strconv.Itoa(r.Attempts),
		r.Error,
		r.Timestamp,
	}
}

// CSVSink implements ports.ResultSink writing a CSV file. Every snapshot
// replaces the file through a temp rename, so readers never observe a
// half-written export.
type CSVSink struct {
	path string
}

// NewCSVSink creates a CSVSink writing to path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// WriteSnapshot rewrites the export with a header row plus one row per result.
func (s *CSVSink) WriteSnapshot(results []domain.OrderResult) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(resultHeader); err != nil {
		f.Close()
		return fmt.Errorf("failed to write results header: %w", err)
	}
	for _, result := range results {
		if err := w.Write(resultRow(result)); err != nil {
			f.Close()
			return fmt.Errorf("failed to write result row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush results: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close results file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace results file: %w", err)
	}
	return nil
}

// Read parses the current export back into results. A missing file yields an
// empty set; a malformed row aborts with an error naming the line.
func (s *CSVSink) Read() ([]domain.OrderResult, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	results := make([]domain.OrderResult, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(resultHeader) {
			return nil, fmt.Errorf("results row %d has %d columns, want %d", i+2, len(row), len(resultHeader))
		}
		attempts, err := strconv.Atoi(row[7])
		if err != nil {
			return nil, fmt.Errorf("results row %d has a non-numeric attempts column: %w", i+2, err)
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
