// This file contains the single-order track command.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"order-sweeper/internal/core/logger"
	auditservice "order-sweeper/internal/features/audit/service"
	lookupdomain "order-sweeper/internal/features/lookup/domain"
	sweepdomain "order-sweeper/internal/features/sweep/domain"
	sweepservice "order-sweeper/internal/features/sweep/service"
)

var (
	trackOrderNumber  string
	trackMobileNumber string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Resolve a single order and print its fields",
	Long: `Track submits the tracking form once for the configured
(order number, mobile number) pair, prints the extracted fields and archives
the captured page. Exits 0 when the order is found, 1 otherwise.`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().StringVar(&trackOrderNumber, "order", "", "Order number (overrides order_details.order_number)")
	trackCmd.Flags().StringVar(&trackMobileNumber, "mobile", "", "Mobile number (overrides order_details.mobile_number)")
}

func runTrack(cmd *cobra.Command, args []string) error {
	l := logger.Get()

	orderNumber := cfg.OrderDetails.OrderNumber
	if trackOrderNumber != "" {
		orderNumber = trackOrderNumber
	}
	mobileNumber := cfg.OrderDetails.MobileNumber
	if trackMobileNumber != "" {
		mobileNumber = trackMobileNumber
	}
	if orderNumber == "" || mobileNumber == "" {
		return errors.New("an order number and a mobile number are required (flags or order_details config)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	submitter, err := newSubmitter(ctx, l)
	if err != nil {
		return err
	}
	defer submitter.Close()

	recorder := auditservice.NewDumpWriter(cfg.Audit.Dir, l)
	sweeper := sweepservice.NewSweeper(submitter, lookupdomain.NewExtractor(), recorder, l)

	result, err := sweeper.Sweep(ctx, orderNumber, []string{mobileNumber})
	if err != nil {
		return err
	}

	printResult(result)

	if result.Status != sweepdomain.SweepStatusFound {
		submitter.Close()
		logger.Sync()
		os.Exit(1)
	}
	return nil
}

// printResult renders one order's outcome as a field/value table.
func printResult(result *sweepdomain.OrderResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Order", result.OrderNumber})
	t.AppendRow(table.Row{"Status", string(result.Status)})
	if result.Status == sweepdomain.SweepStatusFound {
		t.AppendRow(table.Row{"Matched Customer", result.MatchedCustomer})
		t.AppendRow(table.Row{"Order Status", result.OrderStatus})
		t.AppendRow(table.Row{"Delivery Date", result.DeliveryDate})
		t.AppendRow(table.Row{"Total AED", result.TotalAmount})
		t.AppendRow(table.Row{"Items", strings.Join(result.Items, ", ")})
	}
	if result.Error != "" {
		t.AppendRow(table.Row{"Last Error", result.Error})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
