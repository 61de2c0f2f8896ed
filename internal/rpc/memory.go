package rpc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"salesflow/internal/core"

	"github.com/shopspring/decimal"
)

// MemoryBoundary is an in-memory stand-in for the hosted database service,
// used by tests and offline runs. It mirrors the server's observable
// behavior: business-rule violations come back as failed Status rows, and it
// computes its own authoritative installment schedule at commit time.
//
// Its schedule rounding intentionally differs from the client-side projector
// (the remainder is absorbed by the final installment here). The preview and
// the committed schedule are independent calculations; nothing in the
// application may rely on them matching.
type MemoryBoundary struct {
	mu       sync.Mutex
	users    map[string]memoryUser
	catalog  core.Catalog
	sales    map[int]*memorySale
	nextSale int
}

type memoryUser struct {
	id       int
	password string
}

type memorySale struct {
	id          int
	customerID  int
	total       decimal.Decimal
	outstanding decimal.Decimal
	schedule    []core.Installment
	notes       string
}

// NewMemoryBoundary returns an empty boundary; seed it with SeedUser,
// SeedCustomer and SeedProduct.
func NewMemoryBoundary() *MemoryBoundary {
	return &MemoryBoundary{
		users:    make(map[string]memoryUser),
		sales:    make(map[int]*memorySale),
		nextSale: 1,
	}
}

// SeedUser registers a login for VerifyCredentials.
func (m *MemoryBoundary) SeedUser(id int, username, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = memoryUser{id: id, password: password}
}

// SeedCustomer adds a customer to the catalog snapshot.
func (m *MemoryBoundary) SeedCustomer(c core.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog.Customers = append(m.catalog.Customers, c)
}

// SeedProduct adds a product to the catalog snapshot.
func (m *MemoryBoundary) SeedProduct(p core.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog.Products = append(m.catalog.Products, p)
}

// Sale returns the recorded outstanding balance for a committed sale.
func (m *MemoryBoundary) Sale(id int) (outstanding decimal.Decimal, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return decimal.Zero, false
	}
	return s.outstanding, true
}

// Schedule returns the authoritative schedule the boundary computed for a
// committed sale.
func (m *MemoryBoundary) Schedule(id int) ([]core.Installment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return nil, false
	}
	out := make([]core.Installment, len(s.schedule))
	copy(out, s.schedule)
	return out, true
}

// CommitSale processes a sale the way the server would: validates the
// business rules, decrements stock, derives the payment schedule, and
// answers with a Status row.
func (m *MemoryBoundary) CommitSale(ctx context.Context, req CommitSaleRequest) (*CommitSaleResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.catalog.FindCustomer(req.CustomerID); !ok {
		return &CommitSaleResult{Status: Status{Message: fmt.Sprintf("customer %d not found", req.CustomerID)}}, nil
	}
	if len(req.Items) == 0 {
		return &CommitSaleResult{Status: Status{Message: "sale has no items"}}, nil
	}

	total := decimal.Zero
	for _, item := range req.Items {
		p, ok := m.catalog.FindProduct(item.ProductID)
		if !ok {
			return &CommitSaleResult{Status: Status{Message: fmt.Sprintf("product %d not found", item.ProductID)}}, nil
		}
		if item.Quantity < 1 {
			return &CommitSaleResult{Status: Status{Message: fmt.Sprintf("invalid quantity for product %q", p.Name)}}, nil
		}
		if p.Stock < item.Quantity {
			return &CommitSaleResult{Status: Status{Message: fmt.Sprintf("insufficient stock for product %q", p.Name)}}, nil
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	sale := &memorySale{
		id:         m.nextSale,
		customerID: req.CustomerID,
		total:      total,
		notes:      req.Notes,
	}

	switch plan := req.Plan.(type) {
	case core.FullPayment:
		sale.outstanding = decimal.Zero
	case core.InstallmentPlan:
		if plan.DownPayment.GreaterThan(total) {
			return &CommitSaleResult{Status: Status{Message: "down payment exceeds sale total"}}, nil
		}
		sale.schedule = serverSchedule(total, plan)
		sale.outstanding = total.Sub(plan.DownPayment).
			Add(total.Sub(plan.DownPayment).Mul(plan.InterestRatePercent).Div(decimal.NewFromInt(100))).
			Round(2)
	default:
		return nil, fmt.Errorf("unsupported payment plan type %T", req.Plan)
	}

	// All checks passed: apply stock effects and record the sale.
	for _, item := range req.Items {
		p, _ := m.catalog.FindProduct(item.ProductID)
		p.Stock -= item.Quantity
	}
	m.sales[sale.id] = sale
	m.nextSale++

	return &CommitSaleResult{
		Status: Status{Success: true, Message: fmt.Sprintf("sale %d processed", sale.id)},
		SaleID: sale.id,
	}, nil
}

// serverSchedule is the boundary's own amortization: equal installments with
// the rounding remainder pushed onto the final line, deliberately not the
// client projector's rule.
func serverSchedule(total decimal.Decimal, plan core.InstallmentPlan) []core.Installment {
	principal := total.Sub(plan.DownPayment)
	payable := principal.Add(principal.Mul(plan.InterestRatePercent).Div(decimal.NewFromInt(100))).Round(2)
	per := payable.Div(decimal.NewFromInt(int64(plan.Installments))).RoundDown(2)

	lines := make([]core.Installment, plan.Installments)
	intervalDays := plan.Every.IntervalDays()
	allocated := decimal.Zero
	for i := 1; i <= plan.Installments; i++ {
		amount := per
		if i == plan.Installments {
			amount = payable.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		lines[i-1] = core.Installment{
			Sequence: i,
			DueDate:  plan.StartDate.AddDate(0, 0, i*intervalDays),
			Amount:   amount,
		}
	}
	return lines
}

// RecordPayment applies a payment against a committed sale.
func (m *MemoryBoundary) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sale, ok := m.sales[req.SaleID]
	if !ok {
		return &Status{Message: fmt.Sprintf("sale %d not found", req.SaleID)}, nil
	}
	if !req.Amount.IsPositive() {
		return &Status{Message: "payment amount must be positive"}, nil
	}
	if req.Amount.GreaterThan(sale.outstanding) {
		return &Status{Message: fmt.Sprintf("payment %s exceeds outstanding balance %s", req.Amount, sale.outstanding)}, nil
	}

	sale.outstanding = sale.outstanding.Sub(req.Amount)
	return &Status{Success: true, Message: fmt.Sprintf("payment of %s recorded against sale %d", req.Amount, req.SaleID)}, nil
}

// FetchCatalog returns a copy of the current snapshot.
func (m *MemoryBoundary) FetchCatalog(ctx context.Context) (*core.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := core.Catalog{
		Customers: make([]core.Customer, len(m.catalog.Customers)),
		Products:  make([]core.Product, len(m.catalog.Products)),
		FetchedAt: time.Now(),
	}
	copy(out.Customers, m.catalog.Customers)
	copy(out.Products, m.catalog.Products)
	return &out, nil
}

// VerifyCredentials checks the seeded logins.
func (m *MemoryBoundary) VerifyCredentials(ctx context.Context, username, password string) (*CredentialResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[username]
	if !ok || u.password != password {
		return &CredentialResult{Status: Status{Message: "invalid username or password"}}, nil
	}
	return &CredentialResult{
		Status:   Status{Success: true, Message: "ok"},
		UserID:   u.id,
		Username: username,
	}, nil
}
