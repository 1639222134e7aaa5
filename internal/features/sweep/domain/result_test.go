package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderResult(t *testing.T) {
	result := NewOrderResult("CM0002153161")

	assert.Equal(t, "CM0002153161", result.OrderNumber)
	assert.Equal(t, SweepStatusNotFound, result.Status)
	assert.NotEmpty(t, result.Timestamp)
	assert.Zero(t, result.Attempts)
}

func TestOrderResult_MarshalJSON(t *testing.T) {
	result := OrderResult{
		OrderNumber:     "CM0002153161",
		Status:          SweepStatusFound,
		MatchedCustomer: "3163",
		OrderStatus:     "Delivered",
		DeliveryDate:    "Feb 01, 2025",
		TotalAmount:     "250.50",
		Items:           []string{"Home Wireless Plus"},
		Attempts:        3,
		Timestamp:       "2025-02-01T10:00:00Z",
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	jsonString := string(data)
	assert.Contains(t, jsonString, `"order_number":"CM0002153161"`)
	assert.Contains(t, jsonString, `"status":"found"`)
	assert.Contains(t, jsonString, `"matched_customer":"3163"`)
	assert.Contains(t, jsonString, `"order_status":"Delivered"`)
	assert.Contains(t, jsonString, `"total_amount":"250.50"`)
	assert.Contains(t, jsonString, `"attempts":3`)
	// Clean sweeps carry no error key at all.
	assert.NotContains(t, jsonString, `"error"`)
}

func TestOrderResult_MarshalJSON_NotFound(t *testing.T) {
	data, err := json.Marshal(NewOrderResult("CM0002159999"))
	require.NoError(t, err)

	jsonString := string(data)
	assert.Contains(t, jsonString, `"status":"not_found"`)
	assert.Contains(t, jsonString, `"items":null`)
	assert.NotContains(t, jsonString, `"matched_customer"`)
}

func TestProgress_CompletedSet(t *testing.T) {
	progress := Progress{
		CompletedOrders: []string{"CM0002153161", "CM0002153162"},
	}

	set := progress.CompletedSet()
	assert.True(t, set["CM0002153161"])
	assert.True(t, set["CM0002153162"])
	assert.False(t, set["CM0002153163"])
}
