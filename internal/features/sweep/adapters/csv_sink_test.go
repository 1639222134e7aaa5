package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-sweeper/internal/features/sweep/domain"
)

func testResults() []domain.OrderResult {
	return []domain.OrderResult{
		{
			OrderNumber:     "CM0002153161",
			Status:          domain.SweepStatusFound,
			MatchedCustomer: "3163",
			OrderStatus:     "Delivered",
			DeliveryDate:    "Feb 01, 2025",
			TotalAmount:     "250.50",
			Items:           []string{"Home Wireless Plus", "New Sim"},
			Attempts:        3,
			Timestamp:       "2025-02-01T10:00:00Z",
		},
		{
			OrderNumber: "CM0002153162",
			Status:      domain.SweepStatusNotFound,
			Attempts:    5,
			Error:       "navigation timed out",
			Timestamp:   "2025-02-01T10:01:00Z",
		},
	}
}

func TestCSVSink_WriteSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_results.csv")
	sink := NewCSVSink(path)

	require.NoError(t, sink.WriteSnapshot(testResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(resultHeader, ","), lines[0])
	assert.Contains(t, lines[1], "CM0002153161,found,3163,Delivered")
	assert.Contains(t, lines[1], `"Home Wireless Plus, New Sim"`)
	assert.Contains(t, lines[2], "CM0002153162,not_found")
}

func TestCSVSink_WriteSnapshot_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_results.csv")
	sink := NewCSVSink(path)

	require.NoError(t, sink.WriteSnapshot(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(resultHeader, ",")+"\n", string(data))
}

func TestCSVSink_WriteSnapshot_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_results.csv")
	sink := NewCSVSink(path)

	require.NoError(t, sink.WriteSnapshot(testResults()[:1]))
	require.NoError(t, sink.WriteSnapshot(testResults()))

	results, err := sink.Read()
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestCSVSink_ReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_results.csv")
	sink := NewCSVSink(path)

	require.NoError(t, sink.WriteSnapshot(testResults()))

	results, err := sink.Read()
	require.NoError(t, err)
	assert.Equal(t, testResults(), results)
}

func TestCSVSink_ReadMissing(t *testing.T) {
	sink := NewCSVSink(filepath.Join(t.TempDir(), "absent.csv"))

	results, err := sink.Read()
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestCSVSink_ReadMalformedAttempts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order_results.csv")
	row := "CM0002153161,found,3163,Delivered,,,," + "many" + ",,2025-02-01T10:00:00Z"
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(resultHeader, ",")+"\n"+row+"\n"), 0o644))

	_, err := NewCSVSink(path).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attempts")
}
