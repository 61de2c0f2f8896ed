package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceUnit is the calendar unit an installment schedule repeats on.
type RecurrenceUnit string

const (
	UnitDay   RecurrenceUnit = "day"
	UnitWeek  RecurrenceUnit = "week"
	UnitMonth RecurrenceUnit = "month"
	UnitYear  RecurrenceUnit = "year"
)

// ParseRecurrenceUnit validates a recurrence unit string from user input.
func ParseRecurrenceUnit(s string) (RecurrenceUnit, error) {
	switch RecurrenceUnit(s) {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return RecurrenceUnit(s), nil
	default:
		return "", fmt.Errorf("unknown recurrence unit %q (expected day, week, month or year)", s)
	}
}

// approxDays maps a unit to its day-count approximation. month=30 and
// year=365 are deliberate simplifications carried over from the original
// system: due dates are day arithmetic, not true calendar increments.
func (u RecurrenceUnit) approxDays() int {
	switch u {
	case UnitDay:
		return 1
	case UnitWeek:
		return 7
	case UnitMonth:
		return 30
	case UnitYear:
		return 365
	default:
		return 0
	}
}

// Recurrence is an "every N units" rule.
type Recurrence struct {
	Unit     RecurrenceUnit `json:"unit"`
	Interval int            `json:"interval"`
}

// Validate checks the unit and the positive-interval requirement.
func (r Recurrence) Validate() error {
	if _, err := ParseRecurrenceUnit(string(r.Unit)); err != nil {
		return err
	}
	if r.Interval < 1 {
		return fmt.Errorf("recurrence interval must be >= 1, got %d", r.Interval)
	}
	return nil
}

// IntervalDays returns the approximate day count between consecutive
// installments under this rule.
func (r Recurrence) IntervalDays() int {
	return r.Unit.approxDays() * r.Interval
}

// PaymentPlan is the payment-step choice of a draft sale. Exactly two
// concrete variants exist; callers select behavior with an exhaustive type
// switch rather than inspecting optional fields.
type PaymentPlan interface {
	isPaymentPlan()
	// Validate reports whether the plan is fully specified.
	Validate() error
}

// FullPayment settles the whole sale amount immediately.
type FullPayment struct{}

func (FullPayment) isPaymentPlan() {}

func (FullPayment) Validate() error { return nil }

// InstallmentPlan is a fully-specified custom installment configuration.
// All fields are required; there are no optional knobs.
type InstallmentPlan struct {
	DownPayment         decimal.Decimal `json:"down_payment"`
	InterestRatePercent decimal.Decimal `json:"interest_rate_percent"`
	Installments        int             `json:"installments"`
	Every               Recurrence      `json:"every"`
	StartDate           time.Time       `json:"start_date"`
}

func (InstallmentPlan) isPaymentPlan() {}

// Validate checks every field of the plan. The sale total is not known at
// this level; the down-payment-vs-total bound is enforced by the schedule
// projector and again by the wizard before commit.
func (p InstallmentPlan) Validate() error {
	if p.DownPayment.IsNegative() {
		return errors.New("down payment cannot be negative")
	}
	if p.InterestRatePercent.IsNegative() {
		return errors.New("interest rate cannot be negative")
	}
	if p.Installments < 1 {
		return fmt.Errorf("number of installments must be >= 1, got %d", p.Installments)
	}
	if err := p.Every.Validate(); err != nil {
		return err
	}
	if p.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	return nil
}
