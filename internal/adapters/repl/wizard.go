package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"salesflow/internal/app"
	"salesflow/internal/core"
)

// runSaleWizard walks the four-step sale flow: customer, products,
// payment, confirmation. The draft survives a failed commit so the user
// can retry or go back and adjust.
func runSaleWizard(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	catalogResult, err := svc.FetchCatalog(ctx)
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		return
	}
	catalog := catalogResult.Catalog

	w := core.NewWizard()
	fmt.Println("\nNew sale. Type 'back' to revisit a step, 'cancel' to abort.")

	for {
		fmt.Printf("\n[Step %d/4 — %s]\n", int(w.Step())+1, w.Step())
		switch w.Step() {
		case core.StepCustomer:
			if !customerStep(reader, w, catalog) {
				fmt.Println("Sale cancelled.")
				return
			}
		case core.StepProducts:
			if !productsStep(reader, w, catalog) {
				fmt.Println("Sale cancelled.")
				return
			}
		case core.StepPayment:
			if !paymentStep(reader, w, svc) {
				fmt.Println("Sale cancelled.")
				return
			}
		case core.StepConfirmation:
			done, cancelled := confirmationStep(ctx, reader, w, svc, catalog)
			if cancelled {
				fmt.Println("Sale cancelled.")
				return
			}
			if done {
				return
			}
		}
	}
}

// customerStep picks the customer. Returns false on cancel.
func customerStep(reader *bufio.Reader, w *core.Wizard, catalog *core.Catalog) bool {
	printCustomers(catalog.Customers)
	for {
		fmt.Print("Customer id: ")
		raw, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		raw = strings.TrimSpace(strings.ToLower(raw))
		if raw == "cancel" {
			return false
		}
		if raw == "" {
			continue
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Println("  Enter a customer id from the list.")
			continue
		}
		customer, ok := catalog.FindCustomer(id)
		if !ok {
			fmt.Printf("  No customer with id %d.\n", id)
			continue
		}
		w.SelectCustomer(customer.ID)
		fmt.Printf("Customer: %s\n", customer.Name)
		if err := w.Next(); err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}
		return true
	}
}

// productsStep builds the cart. Returns false on cancel.
func productsStep(reader *bufio.Reader, w *core.Wizard, catalog *core.Catalog) bool {
	printProducts(catalog.Products)
	fmt.Println("Add lines: <product-id> <quantity>. Also: remove <line>, list, done, back, cancel.")
	for {
		fmt.Printf("  Cart (%d lines): ", len(w.Draft().Lines))
		raw, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		raw = strings.TrimSpace(raw)
		switch strings.ToLower(raw) {
		case "cancel":
			return false
		case "back":
			w.Back()
			return true
		case "list":
			printDraftLines(w.Draft())
			continue
		case "done":
			if err := w.Next(); err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
			return true
		case "":
			continue
		}

		parts := strings.Fields(raw)
		if strings.ToLower(parts[0]) == "remove" {
			if len(parts) < 2 {
				fmt.Println("  Usage: remove <line>")
				continue
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 1 || n > len(w.Draft().Lines) {
				fmt.Println("  No such line.")
				continue
			}
			w.RemoveLine(n - 1)
			fmt.Println("  Removed.")
			continue
		}

		if len(parts) < 2 {
			fmt.Println("  Format: <product-id> <quantity>")
			continue
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			fmt.Println("  Invalid product id.")
			continue
		}
		qty, err := strconv.Atoi(parts[1])
		if err != nil || qty < 1 {
			fmt.Println("  Invalid quantity.")
			continue
		}
		product, ok := catalog.FindProduct(id)
		if !ok {
			fmt.Printf("  No product with id %d.\n", id)
			continue
		}
		if err := w.AddLine(*product, qty); err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}
		fmt.Printf("  Added %d x %s @ %s\n", qty, product.Name, product.UnitPrice.StringFixed(2))
	}
}

// paymentStep chooses the plan, previewing the schedule for installment
// plans before accepting it. Returns false on cancel.
func paymentStep(reader *bufio.Reader, w *core.Wizard, svc app.ApplicationService) bool {
	total := w.Draft().Total()
	fmt.Printf("Cart total: %s\n", total.StringFixed(2))

	for {
		fmt.Print("Payment plan (full/installment/back/cancel): ")
		raw, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.TrimSpace(strings.ToLower(raw)) {
		case "cancel":
			return false
		case "back":
			w.Back()
			return true
		case "full":
			if err := w.SetPlan(core.FullPayment{}); err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
		case "installment", "inst":
			plan, ok := collectInstallmentPlan(reader)
			if !ok {
				continue
			}
			preview, err := svc.PreviewSchedule(app.PreviewScheduleRequest{
				TotalAmount:         total,
				DownPayment:         plan.DownPayment,
				InterestRatePercent: plan.InterestRatePercent,
				Installments:        plan.Installments,
				RecurrenceUnit:      string(plan.Every.Unit),
				RecurrenceInterval:  plan.Every.Interval,
				StartDate:           plan.StartDate.Format("2006-01-02"),
			})
			if err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
			printProjection(preview.Projection)
			fmt.Print("Use this plan? (y/n): ")
			choice, _ := reader.ReadString('\n')
			if c := strings.TrimSpace(strings.ToLower(choice)); c != "y" && c != "yes" {
				continue
			}
			if err := w.SetPlan(plan); err != nil {
				fmt.Printf("  %v\n", err)
				continue
			}
		default:
			continue
		}

		fmt.Print("Payment method [cash]: ")
		method, _ := reader.ReadString('\n')
		method = strings.TrimSpace(strings.ToLower(method))
		if method == "" {
			method = "cash"
		}
		w.Draft().PaymentMethod = method

		if err := w.Next(); err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}
		return true
	}
}

// collectInstallmentPlan prompts for the installment fields.
func collectInstallmentPlan(reader *bufio.Reader) (core.InstallmentPlan, bool) {
	var plan core.InstallmentPlan

	down, ok := promptDecimal(reader, "  Down payment [0]: ")
	if !ok {
		return plan, false
	}
	rate, ok := promptDecimal(reader, "  Interest rate % [0]: ")
	if !ok {
		return plan, false
	}
	count, ok := promptInt(reader, "  Number of installments: ")
	if !ok {
		return plan, false
	}

	fmt.Print("  Recurrence (day/week/month/year) [month]: ")
	rawUnit, _ := reader.ReadString('\n')
	rawUnit = strings.TrimSpace(strings.ToLower(rawUnit))
	if rawUnit == "" {
		rawUnit = "month"
	}
	unit, err := core.ParseRecurrenceUnit(rawUnit)
	if err != nil {
		fmt.Printf("  %v\n", err)
		return plan, false
	}

	interval, ok := promptInt(reader, "  Every N units [1]: ")
	if !ok {
		interval = 1
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	fmt.Print("  Start date (YYYY-MM-DD, blank = today): ")
	rawDate, _ := reader.ReadString('\n')
	rawDate = strings.TrimSpace(rawDate)
	if rawDate != "" {
		start, err = time.Parse("2006-01-02", rawDate)
		if err != nil {
			fmt.Println("  Invalid date.")
			return plan, false
		}
	}

	return core.InstallmentPlan{
		DownPayment:         down,
		InterestRatePercent: rate,
		Installments:        count,
		Every:               core.Recurrence{Unit: unit, Interval: interval},
		StartDate:           start,
	}, true
}

// confirmationStep shows the draft and commits it. Returns (done,
// cancelled); a failed commit keeps the draft so the user can retry.
func confirmationStep(ctx context.Context, reader *bufio.Reader, w *core.Wizard, svc app.ApplicationService, catalog *core.Catalog) (bool, bool) {
	printDraftSummary(w.Draft(), catalog)

	fmt.Print("Commit this sale? (y/back/cancel): ")
	raw, err := reader.ReadString('\n')
	if err != nil {
		return false, true
	}
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "back":
		w.Back()
		return false, false
	case "cancel":
		return false, true
	case "y", "yes":
	default:
		return false, false
	}

	if err := w.BeginCommit(); err != nil {
		fmt.Printf("Cannot commit: %v\n", err)
		return false, false
	}

	draft := w.Draft()
	lines := make([]app.SaleLineInput, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		lines = append(lines, app.SaleLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	result, err := svc.CommitSale(ctx, app.CommitSaleRequest{
		CustomerID:    *draft.CustomerID,
		Lines:         lines,
		Plan:          draft.Plan,
		PaymentMethod: draft.PaymentMethod,
		ReferenceCode: draft.ReferenceCode,
		Notes:         draft.Notes,
	})
	if err != nil {
		w.FinishCommit(false)
		fmt.Printf("Commit failed: %v\n", err)
		fmt.Println("The draft is unchanged; fix the problem and try again.")
		return false, false
	}
	if !result.Success {
		w.FinishCommit(false)
		// Server rejection text, verbatim.
		fmt.Printf("Sale rejected: %s\n", result.Message)
		fmt.Println("The draft is unchanged; go back to adjust it or retry.")
		return false, false
	}

	w.FinishCommit(true)
	fmt.Printf("Sale committed. ID: %d\n", result.SaleID)
	return true, false
}
