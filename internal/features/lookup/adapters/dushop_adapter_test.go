package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildMismatchXPath verifies the error-indicator XPath construction.
func TestBuildMismatchXPath(t *testing.T) {
	xpath := buildMismatchXPath([]string{"Invalid", "not found"})
	assert.Equal(t, "//*[contains(text(), 'Invalid') or contains(text(), 'not found')]", xpath)

	xpath = buildMismatchXPath([]string{"Errors were found"})
	assert.Equal(t, "//*[contains(text(), 'Errors were found')]", xpath)
}

// TestSubmit_NotStarted verifies Submit refuses to run without a session.
func TestSubmit_NotStarted(t *testing.T) {
	s := NewDuShopSubmitter(Options{TrackingURL: "https://example.com"}, nil)

	_, err := s.Submit(context.Background(), "CM0002153161", "0551234567")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not started")
}

// TestNewDuShopSubmitter_Defaults verifies the wait timeout fallback.
func TestNewDuShopSubmitter_Defaults(t *testing.T) {
	s := NewDuShopSubmitter(Options{}, nil)
	assert.Equal(t, 10*time.Second, s.opts.WaitTimeout)
	assert.NotNil(t, s.logger)

	s = NewDuShopSubmitter(Options{WaitTimeout: 3 * time.Second}, nil)
	assert.Equal(t, 3*time.Second, s.opts.WaitTimeout)
}

// TestSleepCtx verifies cancellation cuts the pause short.
func TestSleepCtx(t *testing.T) {
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sleepCtx(ctx, 5*time.Second)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

// TestStart_UnreachableStorefront verifies the preflight aborts the run
// before a browser is ever launched.
func TestStart_UnreachableStorefront(t *testing.T) {
	s := NewDuShopSubmitter(Options{
		TrackingURL: "http://127.0.0.1:1/en/order-tracking",
	}, nil)

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storefront unreachable")
	assert.Nil(t, s.browser)
}
