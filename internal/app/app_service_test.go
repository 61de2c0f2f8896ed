package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"salesflow/internal/app"
	"salesflow/internal/cache"
	"salesflow/internal/core"
	"salesflow/internal/rpc"
)

func newService(t *testing.T) (app.ApplicationService, *rpc.MemoryBoundary) {
	t.Helper()
	boundary := rpc.NewMemoryBoundary()
	boundary.SeedUser(1, "maria", "s3cret")
	boundary.SeedCustomer(core.Customer{ID: 10, Name: "Acme Corp"})
	boundary.SeedProduct(core.Product{
		ID: 20, Name: "Widget", UnitPrice: decimal.NewFromInt(100), Stock: 5, IsActive: true,
	})
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return app.NewAppService(boundary, cache.NewMemoryCache(time.Minute), log), boundary
}

func TestLoginAndCooldown(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "maria", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.UserID != 1 || session.Username != "maria" {
		t.Fatalf("session = %+v", session)
	}

	_, err = svc.Login(ctx, "maria", "wrong")
	var authErr *app.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("wrong password: err = %v, want AuthError", err)
	}
	if authErr.Message != "invalid username or password" {
		t.Fatalf("auth message = %q", authErr.Message)
	}

	// Even the correct password is throttled right after a failure.
	_, err = svc.Login(ctx, "maria", "s3cret")
	var cooldown *app.CooldownError
	if !errors.As(err, &cooldown) {
		t.Fatalf("during cooldown: err = %v, want CooldownError", err)
	}
	if cooldown.Remaining <= 0 || cooldown.Remaining > 15*time.Second {
		t.Fatalf("cooldown remaining = %v", cooldown.Remaining)
	}

	// A different username is not throttled.
	if _, err := svc.Login(ctx, "jorge", "nope"); err != nil {
		if !errors.As(err, &authErr) {
			t.Fatalf("other username: err = %v, want AuthError", err)
		}
	}
}

func TestSelectPersona(t *testing.T) {
	svc, _ := newService(t)
	base := core.Session{UserID: 1, Username: "maria"}

	session, err := svc.SelectPersona(base, "admin")
	if err != nil {
		t.Fatalf("select persona: %v", err)
	}
	if session.Persona != core.PersonaAdmin {
		t.Fatalf("persona = %q", session.Persona)
	}
	if base.Persona == core.PersonaAdmin {
		t.Fatal("original session mutated")
	}

	if _, err := svc.SelectPersona(base, "intern"); err == nil {
		t.Fatal("unknown persona accepted")
	}
}

func TestFetchCatalogUsesCache(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.FetchCatalog(ctx)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.FromCache {
		t.Fatal("first fetch should miss the cache")
	}
	if len(first.Catalog.Products) != 1 || len(first.Catalog.Customers) != 1 {
		t.Fatalf("catalog = %+v", first.Catalog)
	}

	second, err := svc.FetchCatalog(ctx)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !second.FromCache {
		t.Fatal("second fetch should hit the cache")
	}

	refreshed, err := svc.RefreshCatalog(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.FromCache {
		t.Fatal("refresh must bypass the cache")
	}
}

func TestPreviewSchedule(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.PreviewSchedule(app.PreviewScheduleRequest{
		TotalAmount:         decimal.NewFromInt(1000),
		DownPayment:         decimal.NewFromInt(200),
		InterestRatePercent: decimal.NewFromInt(10),
		Installments:        4,
		RecurrenceUnit:      "month",
		RecurrenceInterval:  1,
		StartDate:           "2024-01-01",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if got := result.Projection.TotalPayable.String(); got != "880" {
		t.Fatalf("total payable = %s", got)
	}
	if len(result.Projection.Installments) != 4 {
		t.Fatalf("installments = %d", len(result.Projection.Installments))
	}

	_, err = svc.PreviewSchedule(app.PreviewScheduleRequest{
		TotalAmount:        decimal.NewFromInt(100),
		Installments:       2,
		RecurrenceUnit:     "fortnight",
		RecurrenceInterval: 1,
	})
	var valErr *app.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("bad unit: err = %v, want ValidationError", err)
	}
}

func TestCommitSaleResolvesPricesAndReference(t *testing.T) {
	svc, boundary := newService(t)
	ctx := context.Background()

	// Zero unit price means "use the catalog price".
	result, err := svc.CommitSale(ctx, app.CommitSaleRequest{
		CustomerID:    10,
		Lines:         []app.SaleLineInput{{ProductID: 20, Quantity: 2}},
		Plan:          core.FullPayment{},
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !result.Success {
		t.Fatalf("commit rejected: %s", result.Message)
	}
	if result.SaleID == 0 {
		t.Fatal("sale id missing")
	}

	outstanding, ok := boundary.Sale(result.SaleID)
	if !ok {
		t.Fatalf("sale %d not stored", result.SaleID)
	}
	if !outstanding.IsZero() {
		t.Fatalf("full payment outstanding = %s, want 0", outstanding)
	}

	// The boundary assigns sale ids; a second commit must carry a new one
	// through to the result.
	second, err := svc.CommitSale(ctx, app.CommitSaleRequest{
		CustomerID:    10,
		Lines:         []app.SaleLineInput{{ProductID: 20, Quantity: 1}},
		Plan:          core.FullPayment{},
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("second commit: %v", err)
	}
	if !second.Success || second.SaleID == result.SaleID {
		t.Fatalf("second commit = %+v, first sale id = %d", second, result.SaleID)
	}
}

func TestCommitSaleValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	valid := app.CommitSaleRequest{
		CustomerID: 10,
		Lines:      []app.SaleLineInput{{ProductID: 20, Quantity: 1}},
		Plan:       core.FullPayment{},
	}

	cases := []struct {
		name   string
		mutate func(*app.CommitSaleRequest)
	}{
		{"missing customer", func(r *app.CommitSaleRequest) { r.CustomerID = 0 }},
		{"empty cart", func(r *app.CommitSaleRequest) { r.Lines = nil }},
		{"missing plan", func(r *app.CommitSaleRequest) { r.Plan = nil }},
		{"zero quantity", func(r *app.CommitSaleRequest) { r.Lines = []app.SaleLineInput{{ProductID: 20}} }},
		{"unknown product", func(r *app.CommitSaleRequest) { r.Lines = []app.SaleLineInput{{ProductID: 99, Quantity: 1}} }},
	}
	for _, tc := range cases {
		req := valid
		tc.mutate(&req)
		_, err := svc.CommitSale(ctx, req)
		var valErr *app.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("%s: err = %v, want ValidationError", tc.name, err)
		}
	}
}

func TestRecordPayment(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	commit, err := svc.CommitSale(ctx, app.CommitSaleRequest{
		CustomerID: 10,
		Lines:      []app.SaleLineInput{{ProductID: 20, Quantity: 3}},
		Plan: core.InstallmentPlan{
			DownPayment:         decimal.NewFromInt(100),
			InterestRatePercent: decimal.NewFromInt(10),
			Installments:        2,
			Every:               core.Recurrence{Unit: core.UnitMonth, Interval: 1},
			StartDate:           time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	payment, err := svc.RecordPayment(ctx, app.RecordPaymentRequest{
		SaleID:        commit.SaleID,
		Amount:        decimal.NewFromInt(50),
		PaymentMethod: "transfer",
	})
	if err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if !payment.Success {
		t.Fatalf("payment rejected: %s", payment.Message)
	}

	if _, err := svc.RecordPayment(ctx, app.RecordPaymentRequest{SaleID: commit.SaleID, Amount: decimal.Zero}); err == nil {
		t.Fatal("zero amount accepted")
	}
}
