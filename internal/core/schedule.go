package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionInput holds the sale parameters the schedule preview is computed
// from. All money fields are currency amounts with two displayed fraction
// digits.
type ProjectionInput struct {
	TotalAmount         decimal.Decimal
	DownPayment         decimal.Decimal
	InterestRatePercent decimal.Decimal
	Installments        int
	Every               Recurrence
	StartDate           time.Time
}

// Validate rejects the pathological inputs the projector must never see.
// These are precondition violations, not runtime failures the projection
// handles.
func (in ProjectionInput) Validate() error {
	if in.TotalAmount.IsNegative() {
		return fmt.Errorf("total amount cannot be negative, got %s", in.TotalAmount)
	}
	if in.DownPayment.IsNegative() {
		return fmt.Errorf("down payment cannot be negative, got %s", in.DownPayment)
	}
	if in.DownPayment.GreaterThan(in.TotalAmount) {
		return fmt.Errorf("down payment %s exceeds total amount %s", in.DownPayment, in.TotalAmount)
	}
	if in.InterestRatePercent.IsNegative() {
		return fmt.Errorf("interest rate cannot be negative, got %s", in.InterestRatePercent)
	}
	if in.Installments < 1 {
		return fmt.Errorf("number of installments must be >= 1, got %d", in.Installments)
	}
	if err := in.Every.Validate(); err != nil {
		return err
	}
	return nil
}

// Installment is one due line of a projected schedule.
type Installment struct {
	Sequence int             `json:"sequence"`
	DueDate  time.Time       `json:"due_date"`
	Amount   decimal.Decimal `json:"amount"`
}

// Projection is the client-side, non-authoritative preview of an installment
// schedule. The remote boundary computes the real schedule independently at
// commit time; the two are never reconciled and are not required to agree
// bit-for-bit.
type Projection struct {
	Principal      decimal.Decimal `json:"principal"`
	InterestAmount decimal.Decimal `json:"interest_amount"`
	TotalPayable   decimal.Decimal `json:"total_payable"`
	DownPayment    decimal.Decimal `json:"down_payment"`
	Installments   []Installment   `json:"installments"`
}

var oneHundred = decimal.NewFromInt(100)

// ProjectSchedule maps sale inputs to an ordered sequence of due installments.
// Pure and side-effect free; cheap enough to run on every keystroke.
//
// Equal-amount amortization: every line carries totalPayable/N rounded to two
// decimals. The rounding remainder is NOT pushed onto the final installment —
// last-cent drift across the schedule is accepted, matching the original
// system. Due dates use the day-count approximation of Recurrence, so a
// monthly schedule advances 30 days per step regardless of month length.
func ProjectSchedule(in ProjectionInput) (*Projection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	principal := in.TotalAmount.Sub(in.DownPayment)
	interest := principal.Mul(in.InterestRatePercent).Div(oneHundred)
	totalPayable := principal.Add(interest)
	perInstallment := totalPayable.Div(decimal.NewFromInt(int64(in.Installments))).Round(2)

	intervalDays := in.Every.IntervalDays()
	lines := make([]Installment, in.Installments)
	for i := 1; i <= in.Installments; i++ {
		lines[i-1] = Installment{
			Sequence: i,
			DueDate:  in.StartDate.AddDate(0, 0, i*intervalDays),
			Amount:   perInstallment,
		}
	}

	return &Projection{
		Principal:      principal,
		InterestAmount: interest,
		TotalPayable:   totalPayable,
		DownPayment:    in.DownPayment,
		Installments:   lines,
	}, nil
}
