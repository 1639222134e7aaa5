package adapters

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXSink_WriteSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_results.xlsx")
	sink := NewXLSXSink(path)

	require.NoError(t, sink.WriteSnapshot(testResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	header, err := f.GetCellValue(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "order_number", header)

	orderNumber, err := f.GetCellValue(xlsxSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "CM0002153161", orderNumber)

	items, err := f.GetCellValue(xlsxSheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "Home Wireless Plus, New Sim", items)

	status, err := f.GetCellValue(xlsxSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "not_found", status)

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestXLSXSink_ReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_results.xlsx")
	sink := NewXLSXSink(path)

	require.NoError(t, sink.WriteSnapshot(testResults()))

	results, err := sink.Read()
	require.NoError(t, err)
	assert.Equal(t, testResults(), results)
}

func TestXLSXSink_ReadMissing(t *testing.T) {
	sink := NewXLSXSink(filepath.Join(t.TempDir(), "absent.xlsx"))

	results, err := sink.Read()
	require.NoError(t, err)
	assert.Nil(t, results)
}
