package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statusdomain "order-sweeper/internal/features/status/domain"
	"order-sweeper/internal/features/status/service"
	sweepdomain "order-sweeper/internal/features/sweep/domain"
)

// mockProgressStore serves a canned checkpoint.
type mockProgressStore struct {
	progress *sweepdomain.Progress
	loadErr  error
}

func (m *mockProgressStore) Load(ctx context.Context) (*sweepdomain.Progress, error) {
	return m.progress, m.loadErr
}

func (m *mockProgressStore) Save(ctx context.Context, progress *sweepdomain.Progress) error {
	return nil
}

func (m *mockProgressStore) Clear(ctx context.Context) error {
	return nil
}

// mockReader serves a canned export.
type mockReader struct {
	results []sweepdomain.OrderResult
	err     error
}

func (m *mockReader) Read() ([]sweepdomain.OrderResult, error) {
	return m.results, m.err
}

func newTestApp(store *mockProgressStore, reader *mockReader) *fiber.App {
	handler := NewStatusHandler(service.NewStatusService(store, reader))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/healthz", handler.Healthz)
	app.Get("/progress", handler.GetProgress)
	app.Get("/results", handler.GetResults)
	app.Get("/summary", handler.GetSummary)
	return app
}

func TestStatusHandler_Healthz(t *testing.T) {
	app := newTestApp(&mockProgressStore{}, &mockReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestStatusHandler_GetProgress_NoBatch(t *testing.T) {
	app := newTestApp(&mockProgressStore{}, &mockReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/progress", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "no batch in progress", body.Message)
	assert.Equal(t, "test-ray-id", body.RayID)
}

func TestStatusHandler_GetProgress_Live(t *testing.T) {
	store := &mockProgressStore{
		progress: &sweepdomain.Progress{
			CompletedOrders:    []string{"CM0002153161"},
			LastProcessedIndex: 0,
			Timestamp:          "2025-02-01T10:00:00Z",
		},
	}
	app := newTestApp(store, &mockReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/progress", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body sweepdomain.Progress
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"CM0002153161"}, body.CompletedOrders)
}

func TestStatusHandler_GetProgress_StoreError(t *testing.T) {
	store := &mockProgressStore{loadErr: errors.New("redis: connection refused")}
	app := newTestApp(store, &mockReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/progress", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "test-ray-id", body.RayID)
	assert.Contains(t, body.Message, "failed to load progress")
}

func TestStatusHandler_GetResults(t *testing.T) {
	reader := &mockReader{
		results: []sweepdomain.OrderResult{
			{OrderNumber: "CM0002153161", Status: sweepdomain.SweepStatusFound, Attempts: 2},
		},
	}
	app := newTestApp(&mockProgressStore{}, reader)

	resp, err := app.Test(httptest.NewRequest("GET", "/results", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body []sweepdomain.OrderResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "CM0002153161", body[0].OrderNumber)
}

func TestStatusHandler_GetResults_EmptyArray(t *testing.T) {
	app := newTestApp(&mockProgressStore{}, &mockReader{})

	resp, err := app.Test(httptest.NewRequest("GET", "/results", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body []sweepdomain.OrderResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body)
	assert.Empty(t, body)
}

func TestStatusHandler_GetSummary(t *testing.T) {
	reader := &mockReader{
		results: []sweepdomain.OrderResult{
			{Status: sweepdomain.SweepStatusFound, Attempts: 3},
			{Status: sweepdomain.SweepStatusNotFound, Attempts: 5},
		},
	}
	app := newTestApp(&mockProgressStore{}, reader)

	resp, err := app.Test(httptest.NewRequest("GET", "/summary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body statusdomain.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, 1, body.Found)
	assert.Equal(t, 1, body.NotFound)
	assert.Equal(t, 8, body.Attempts)
}
