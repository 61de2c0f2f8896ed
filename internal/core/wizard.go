package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Step is one of the four linear sale wizard steps.
type Step int

const (
	StepCustomer Step = iota
	StepProducts
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepCustomer:
		return "Customer"
	case StepProducts:
		return "Products"
	case StepPayment:
		return "Payment"
	case StepConfirmation:
		return "Confirmation"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

var (
	// ErrNoCustomer blocks Customer → Products without a selected customer.
	ErrNoCustomer = errors.New("select a customer before continuing")
	// ErrEmptyCart blocks Products → Payment with no line items.
	ErrEmptyCart = errors.New("add at least one line item before continuing")
	// ErrNoPlan blocks Payment → Confirmation without a payment plan.
	ErrNoPlan = errors.New("choose a payment plan before continuing")
	// ErrForwardJump rejects step-indicator navigation past the furthest
	// validated step.
	ErrForwardJump = errors.New("cannot navigate ahead of the furthest visited step")
	// ErrCommitInFlight rejects a second commit while one is outstanding.
	ErrCommitInFlight = errors.New("sale commit already in flight")
	// ErrNotAtConfirmation rejects commit from any step but the last.
	ErrNotAtConfirmation = errors.New("commit is only available at the confirmation step")
)

// DraftLine is one product line accumulated in the wizard cart.
type DraftLine struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal is quantity × unit price.
func (l DraftLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DraftSale is the in-progress sale record accumulated across wizard steps.
// It is mutable only while its owning wizard session is active, is discarded
// on abandonment, and is never persisted locally.
type DraftSale struct {
	CustomerID    *int        `json:"customer_id"`
	Lines         []DraftLine `json:"lines"`
	Plan          PaymentPlan `json:"-"`
	PaymentMethod string      `json:"payment_method"`
	ReferenceCode string      `json:"reference_code"`
	Notes         string      `json:"notes"`
}

// Total sums all line totals.
func (d *DraftSale) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Wizard is the 4-step sale flow state machine:
//
//	Customer → Products → Payment → Confirmation
//
// Forward navigation is gated on step-local validity; backward navigation is
// unrestricted; direct navigation may target any already-visited step. One
// wizard owns one draft; sessions never share drafts. The wizard itself is
// single-threaded — callers on the event loop that owns it.
type Wizard struct {
	step     Step
	furthest Step
	draft    DraftSale
	inFlight bool
}

// NewWizard starts a fresh session at the Customer step with an empty draft.
func NewWizard() *Wizard {
	return &Wizard{step: StepCustomer, furthest: StepCustomer}
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Furthest returns the furthest step forward navigation has validated into.
func (w *Wizard) Furthest() Step { return w.furthest }

// Draft exposes the accumulating draft. Free-text fields (payment method,
// reference code, notes) are set directly on it; gated state goes through
// the wizard methods below.
func (w *Wizard) Draft() *DraftSale { return &w.draft }

// InFlight reports whether a commit request is outstanding.
func (w *Wizard) InFlight() bool { return w.inFlight }

// SelectCustomer records the customer reference for the draft.
func (w *Wizard) SelectCustomer(id int) {
	w.draft.CustomerID = &id
}

// AddLine appends a cart line for the given product. Quantity must be >= 1.
func (w *Wizard) AddLine(p Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be >= 1, got %d", quantity)
	}
	w.draft.Lines = append(w.draft.Lines, DraftLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.UnitPrice,
	})
	return nil
}

// RemoveLine drops the cart line at index i. Out-of-range indexes are ignored.
func (w *Wizard) RemoveLine(i int) {
	if i < 0 || i >= len(w.draft.Lines) {
		return
	}
	w.draft.Lines = append(w.draft.Lines[:i], w.draft.Lines[i+1:]...)
}

// SetPlan records the payment-step choice after validating it, including the
// down-payment bound against the current cart total.
func (w *Wizard) SetPlan(plan PaymentPlan) error {
	if plan == nil {
		return ErrNoPlan
	}
	if err := plan.Validate(); err != nil {
		return err
	}
	if p, ok := plan.(InstallmentPlan); ok {
		if total := w.draft.Total(); p.DownPayment.GreaterThan(total) {
			return fmt.Errorf("down payment %s exceeds sale total %s", p.DownPayment, total)
		}
	}
	w.draft.Plan = plan
	return nil
}

// gate returns the reason the given step cannot be advanced past, or nil.
func (w *Wizard) gate(step Step) error {
	switch step {
	case StepCustomer:
		if w.draft.CustomerID == nil {
			return ErrNoCustomer
		}
	case StepProducts:
		if len(w.draft.Lines) == 0 {
			return ErrEmptyCart
		}
	case StepPayment:
		if w.draft.Plan == nil {
			return ErrNoPlan
		}
	}
	return nil
}

// CanAdvance reports whether the current step's gate passes.
func (w *Wizard) CanAdvance() bool {
	return w.step < StepConfirmation && w.gate(w.step) == nil
}

// Next advances one step if the current step's gate passes.
func (w *Wizard) Next() error {
	if w.step >= StepConfirmation {
		return ErrForwardJump
	}
	if err := w.gate(w.step); err != nil {
		return err
	}
	w.step++
	if w.step > w.furthest {
		w.furthest = w.step
	}
	return nil
}

// Back moves one step backward. Backward navigation is never gated.
func (w *Wizard) Back() {
	if w.step > StepCustomer {
		w.step--
	}
}

// Goto navigates directly to an already-visited step (step index must not
// exceed the furthest validated step).
func (w *Wizard) Goto(step Step) error {
	if step < StepCustomer || step > StepConfirmation {
		return fmt.Errorf("no such step %d", int(step))
	}
	if step > w.furthest {
		return ErrForwardJump
	}
	w.step = step
	return nil
}

// BeginCommit marks the single terminal commit as in flight. It fails unless
// the wizard sits at Confirmation with every gate satisfied, and while a
// previous commit is outstanding — the commit path stays disabled until the
// boundary resolves.
func (w *Wizard) BeginCommit() error {
	if w.inFlight {
		return ErrCommitInFlight
	}
	if w.step != StepConfirmation {
		return ErrNotAtConfirmation
	}
	for _, s := range []Step{StepCustomer, StepProducts, StepPayment} {
		if err := w.gate(s); err != nil {
			return err
		}
	}
	w.inFlight = true
	return nil
}

// FinishCommit resolves the outstanding commit. On success the wizard resets
// to the Customer step with an empty draft; on failure it stays at
// Confirmation with the draft intact so the user may retry or go back and
// correct input.
func (w *Wizard) FinishCommit(success bool) {
	w.inFlight = false
	if success {
		*w = *NewWizard()
	}
}
