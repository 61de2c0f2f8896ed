package rpc_test

import (
	"context"
	"testing"
	"time"

	"salesflow/internal/core"
	"salesflow/internal/rpc"

	"github.com/shopspring/decimal"
)

func seededBoundary() *rpc.MemoryBoundary {
	b := rpc.NewMemoryBoundary()
	b.SeedUser(1, "maria", "s3cret")
	b.SeedCustomer(core.Customer{ID: 10, Name: "Acme Corp"})
	b.SeedProduct(core.Product{ID: 20, Name: "Widget", UnitPrice: decimal.NewFromInt(100), Stock: 5, IsActive: true})
	return b
}

func fullRequest(qty int) rpc.CommitSaleRequest {
	price := decimal.NewFromInt(100)
	return rpc.CommitSaleRequest{
		CustomerID: 10,
		Items: []rpc.SaleItem{{
			ProductID: 20,
			Quantity:  qty,
			UnitPrice: price,
			LineTotal: price.Mul(decimal.NewFromInt(int64(qty))),
		}},
		Plan:          core.FullPayment{},
		PaymentMethod: "cash",
	}
}

func TestMemoryBoundary_CommitAndStock(t *testing.T) {
	b := seededBoundary()
	ctx := context.Background()

	result, err := b.CommitSale(ctx, fullRequest(3))
	if err != nil {
		t.Fatalf("CommitSale failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}
	if result.SaleID == 0 {
		t.Error("expected a sale id")
	}

	// Remaining stock is 2; the next request must fail as a business error,
	// not a transport error.
	result, err = b.CommitSale(ctx, fullRequest(3))
	if err != nil {
		t.Fatalf("CommitSale returned transport error: %v", err)
	}
	if result.Success {
		t.Error("expected insufficient-stock failure")
	}
	if result.Message == "" {
		t.Error("expected a server message to surface verbatim")
	}
}

func TestMemoryBoundary_ScheduleDivergesFromClientPreview(t *testing.T) {
	// The client preview and the server schedule are intentionally
	// independent calculations. The preview repeats the rounded amount on
	// every line; the server absorbs the remainder into the final line.
	// This test pins the divergence so nobody "fixes" it into a shared
	// calculation without confirming the real backend rule.
	b := rpc.NewMemoryBoundary()
	b.SeedCustomer(core.Customer{ID: 1, Name: "Acme"})
	b.SeedProduct(core.Product{ID: 2, Name: "Widget", UnitPrice: decimal.RequireFromString("33.34"), Stock: 10})

	plan := core.InstallmentPlan{
		DownPayment:  decimal.Zero,
		Installments: 3,
		Every:        core.Recurrence{Unit: core.UnitMonth, Interval: 1},
		StartDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	price := decimal.RequireFromString("33.34")
	req := rpc.CommitSaleRequest{
		CustomerID: 1,
		Items:      []rpc.SaleItem{{ProductID: 2, Quantity: 3, UnitPrice: price, LineTotal: price.Mul(decimal.NewFromInt(3))}},
		Plan:       plan,
	}

	result, err := b.CommitSale(context.Background(), req)
	if err != nil || !result.Success {
		t.Fatalf("CommitSale failed: %v / %+v", err, result)
	}

	server, ok := b.Schedule(result.SaleID)
	if !ok {
		t.Fatal("expected a stored schedule")
	}

	// Server lines sum exactly to the payable amount.
	sum := decimal.Zero
	for _, line := range server {
		sum = sum.Add(line.Amount)
	}
	if !sum.Equal(decimal.RequireFromString("100.02")) {
		t.Errorf("server schedule sums to %s, expected 100.02", sum)
	}

	preview, err := core.ProjectSchedule(core.ProjectionInput{
		TotalAmount:  decimal.RequireFromString("100.02"),
		Installments: 3,
		Every:        plan.Every,
		StartDate:    plan.StartDate,
	})
	if err != nil {
		t.Fatalf("ProjectSchedule failed: %v", err)
	}
	if len(preview.Installments) != len(server) {
		t.Fatalf("preview has %d lines, server %d", len(preview.Installments), len(server))
	}
	// Both are valid schedules for the same sale; equality is NOT required.
	for i := range server {
		if !server[i].DueDate.Equal(preview.Installments[i].DueDate) {
			t.Errorf("line %d: due dates should agree (%s vs %s)", i, server[i].DueDate, preview.Installments[i].DueDate)
		}
	}
}

func TestMemoryBoundary_RecordPayment(t *testing.T) {
	b := seededBoundary()
	ctx := context.Background()

	plan := core.InstallmentPlan{
		DownPayment:         decimal.NewFromInt(100),
		InterestRatePercent: decimal.NewFromInt(10),
		Installments:        2,
		Every:               core.Recurrence{Unit: core.UnitMonth, Interval: 1},
		StartDate:           time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
	}
	req := fullRequest(3) // total 300
	req.Plan = plan

	result, err := b.CommitSale(ctx, req)
	if err != nil || !result.Success {
		t.Fatalf("CommitSale failed: %v / %+v", err, result)
	}

	// Outstanding: (300-100) * 1.10 = 220.
	outstanding, ok := b.Sale(result.SaleID)
	if !ok {
		t.Fatal("sale not recorded")
	}
	if !outstanding.Equal(decimal.NewFromInt(220)) {
		t.Errorf("expected outstanding 220, got %s", outstanding)
	}

	status, err := b.RecordPayment(ctx, rpc.RecordPaymentRequest{
		SaleID:        result.SaleID,
		Amount:        decimal.NewFromInt(110),
		PaymentMethod: "transfer",
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if !status.Success {
		t.Fatalf("expected success, got %q", status.Message)
	}

	status, err = b.RecordPayment(ctx, rpc.RecordPaymentRequest{SaleID: result.SaleID, Amount: decimal.NewFromInt(500)})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if status.Success {
		t.Error("expected overpayment to be rejected as a business failure")
	}

	status, err = b.RecordPayment(ctx, rpc.RecordPaymentRequest{SaleID: 999, Amount: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if status.Success {
		t.Error("expected unknown sale to be rejected")
	}
}

func TestMemoryBoundary_VerifyCredentials(t *testing.T) {
	b := seededBoundary()
	ctx := context.Background()

	result, err := b.VerifyCredentials(ctx, "maria", "s3cret")
	if err != nil {
		t.Fatalf("VerifyCredentials failed: %v", err)
	}
	if !result.Success || result.UserID != 1 {
		t.Errorf("expected success for seeded user, got %+v", result)
	}

	result, err = b.VerifyCredentials(ctx, "maria", "wrong")
	if err != nil {
		t.Fatalf("VerifyCredentials failed: %v", err)
	}
	if result.Success {
		t.Error("expected failure for wrong password")
	}
}
