package core_test

import (
	"testing"
	"time"

	"salesflow/internal/core"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestProjectSchedule_ConcreteScenario(t *testing.T) {
	// 1000 total, 200 down, 10% interest, 4 monthly installments from 2024-01-01.
	proj, err := core.ProjectSchedule(core.ProjectionInput{
		TotalAmount:         d("1000"),
		DownPayment:         d("200"),
		InterestRatePercent: d("10"),
		Installments:        4,
		Every:               core.Recurrence{Unit: core.UnitMonth, Interval: 1},
		StartDate:           date(2024, time.January, 1),
	})
	if err != nil {
		t.Fatalf("ProjectSchedule failed: %v", err)
	}

	if !proj.Principal.Equal(d("800")) {
		t.Errorf("principal: expected 800, got %s", proj.Principal)
	}
	if !proj.InterestAmount.Equal(d("80")) {
		t.Errorf("interest: expected 80, got %s", proj.InterestAmount)
	}
	if !proj.TotalPayable.Equal(d("880")) {
		t.Errorf("total payable: expected 880, got %s", proj.TotalPayable)
	}

	// 30-day month approximation from Jan 1: +30, +60, +90, +120 days.
	wantDates := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.March, 1),
		date(2024, time.March, 31),
		date(2024, time.April, 30),
	}
	if len(proj.Installments) != 4 {
		t.Fatalf("expected 4 installments, got %d", len(proj.Installments))
	}
	for i, line := range proj.Installments {
		if line.Sequence != i+1 {
			t.Errorf("line %d: expected sequence %d, got %d", i, i+1, line.Sequence)
		}
		if !line.Amount.Equal(d("220")) {
			t.Errorf("line %d: expected amount 220, got %s", i, line.Amount)
		}
		if !line.DueDate.Equal(wantDates[i]) {
			t.Errorf("line %d: expected due date %s, got %s", i, wantDates[i].Format("2006-01-02"), line.DueDate.Format("2006-01-02"))
		}
	}
}

func TestProjectSchedule_SingleInstallment(t *testing.T) {
	start := date(2025, time.June, 15)
	proj, err := core.ProjectSchedule(core.ProjectionInput{
		TotalAmount:  d("500"),
		Installments: 1,
		Every:        core.Recurrence{Unit: core.UnitWeek, Interval: 2},
		StartDate:    start,
	})
	if err != nil {
		t.Fatalf("ProjectSchedule failed: %v", err)
	}
	if len(proj.Installments) != 1 {
		t.Fatalf("expected 1 installment, got %d", len(proj.Installments))
	}
	if !proj.Installments[0].Amount.Equal(d("500")) {
		t.Errorf("expected single installment of 500, got %s", proj.Installments[0].Amount)
	}
	if want := start.AddDate(0, 0, 14); !proj.Installments[0].DueDate.Equal(want) {
		t.Errorf("expected due date %s, got %s", want.Format("2006-01-02"), proj.Installments[0].DueDate.Format("2006-01-02"))
	}
}

func TestProjectSchedule_LineCountAndIncreasingDates(t *testing.T) {
	tests := []struct {
		name         string
		installments int
		every        core.Recurrence
	}{
		{"daily x12", 12, core.Recurrence{Unit: core.UnitDay, Interval: 1}},
		{"biweekly x6", 6, core.Recurrence{Unit: core.UnitWeek, Interval: 2}},
		{"monthly x24", 24, core.Recurrence{Unit: core.UnitMonth, Interval: 1}},
		{"yearly x3", 3, core.Recurrence{Unit: core.UnitYear, Interval: 1}},
	}

	start := date(2024, time.February, 29)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj, err := core.ProjectSchedule(core.ProjectionInput{
				TotalAmount:  d("1234.56"),
				Installments: tt.installments,
				Every:        tt.every,
				StartDate:    start,
			})
			if err != nil {
				t.Fatalf("ProjectSchedule failed: %v", err)
			}
			if len(proj.Installments) != tt.installments {
				t.Fatalf("expected %d lines, got %d", tt.installments, len(proj.Installments))
			}
			prev := start
			for i, line := range proj.Installments {
				if want := start.AddDate(0, 0, (i+1)*tt.every.IntervalDays()); !line.DueDate.Equal(want) {
					t.Errorf("line %d: expected due date %s, got %s", i, want.Format("2006-01-02"), line.DueDate.Format("2006-01-02"))
				}
				if !line.DueDate.After(prev) {
					t.Errorf("line %d: due date %s not strictly after %s", i, line.DueDate, prev)
				}
				if line.Amount.IsNegative() {
					t.Errorf("line %d: negative amount %s", i, line.Amount)
				}
				prev = line.DueDate
			}
		})
	}
}

func TestProjectSchedule_RoundingDriftWithinTolerance(t *testing.T) {
	// Drift is accepted, not corrected: the sum of line amounts may differ
	// from the total payable by up to one cent per installment.
	tests := []struct {
		name         string
		total        string
		installments int
	}{
		{"100 over 3", "100", 3},
		{"1000 over 7", "1000", 7},
		{"999.99 over 13", "999.99", 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj, err := core.ProjectSchedule(core.ProjectionInput{
				TotalAmount:  d(tt.total),
				Installments: tt.installments,
				Every:        core.Recurrence{Unit: core.UnitMonth, Interval: 1},
				StartDate:    date(2024, time.January, 1),
			})
			if err != nil {
				t.Fatalf("ProjectSchedule failed: %v", err)
			}
			sum := decimal.Zero
			for _, line := range proj.Installments {
				sum = sum.Add(line.Amount)
			}
			tolerance := d("0.01").Mul(decimal.NewFromInt(int64(tt.installments)))
			if drift := sum.Sub(proj.TotalPayable).Abs(); drift.GreaterThan(tolerance) {
				t.Errorf("drift %s exceeds tolerance %s (sum %s, payable %s)", drift, tolerance, sum, proj.TotalPayable)
			}
		})
	}
}

func TestProjectSchedule_FullDownPayment(t *testing.T) {
	proj, err := core.ProjectSchedule(core.ProjectionInput{
		TotalAmount:         d("750"),
		DownPayment:         d("750"),
		InterestRatePercent: d("12.5"),
		Installments:        5,
		Every:               core.Recurrence{Unit: core.UnitMonth, Interval: 1},
		StartDate:           date(2024, time.January, 1),
	})
	if err != nil {
		t.Fatalf("ProjectSchedule failed: %v", err)
	}
	if !proj.Principal.IsZero() {
		t.Errorf("expected zero principal, got %s", proj.Principal)
	}
	for i, line := range proj.Installments {
		if !line.Amount.IsZero() {
			t.Errorf("line %d: expected zero amount, got %s", i, line.Amount)
		}
	}
}

func TestProjectSchedule_InvalidInputs(t *testing.T) {
	valid := core.ProjectionInput{
		TotalAmount:  d("100"),
		Installments: 2,
		Every:        core.Recurrence{Unit: core.UnitMonth, Interval: 1},
		StartDate:    date(2024, time.January, 1),
	}

	tests := []struct {
		name   string
		mutate func(in *core.ProjectionInput)
	}{
		{"negative total", func(in *core.ProjectionInput) { in.TotalAmount = d("-1") }},
		{"negative down payment", func(in *core.ProjectionInput) { in.DownPayment = d("-5") }},
		{"down payment above total", func(in *core.ProjectionInput) { in.DownPayment = d("100.01") }},
		{"negative interest rate", func(in *core.ProjectionInput) { in.InterestRatePercent = d("-0.5") }},
		{"zero installments", func(in *core.ProjectionInput) { in.Installments = 0 }},
		{"unknown recurrence unit", func(in *core.ProjectionInput) { in.Every.Unit = "fortnight" }},
		{"zero recurrence interval", func(in *core.ProjectionInput) { in.Every.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			if _, err := core.ProjectSchedule(in); err == nil {
				t.Errorf("expected error, got nil")
			}
		})
	}
}
