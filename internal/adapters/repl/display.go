package repl

import (
	"fmt"
	"strings"

	"salesflow/internal/app"
	"salesflow/internal/core"
)

func printCatalog(result *app.CatalogResult) {
	source := "boundary"
	if result.FromCache {
		source = "cache"
	}
	fmt.Printf("\nCatalog fetched at %s (from %s)\n",
		result.Catalog.FetchedAt.Format("2006-01-02 15:04:05"), source)
	printCustomers(result.Catalog.Customers)
	printProducts(result.Catalog.Products)
}

func printCustomers(customers []core.Customer) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  CUSTOMERS")
	fmt.Println(strings.Repeat("=", 72))
	if len(customers) == 0 {
		fmt.Println("  No customers found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-5s %-25s %-25s %s\n", "ID", "NAME", "EMAIL", "PHONE")
	fmt.Println(strings.Repeat("-", 72))
	for _, c := range customers {
		fmt.Printf("  %-5d %-25s %-25s %s\n", c.ID, c.Name, c.Email, c.Phone)
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printProducts(products []core.Product) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  PRODUCTS")
	fmt.Println(strings.Repeat("=", 72))
	if len(products) == 0 {
		fmt.Println("  No products found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-5s %-28s %12s %8s  %s\n", "ID", "NAME", "UNIT PRICE", "STOCK", "ACTIVE")
	fmt.Println(strings.Repeat("-", 72))
	for _, p := range products {
		active := "yes"
		if !p.IsActive {
			active = "no"
		}
		fmt.Printf("  %-5d %-28s %12s %8d  %s\n",
			p.ID, p.Name, p.UnitPrice.StringFixed(2), p.Stock, active)
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printProjection(p *core.Projection) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 52))
	fmt.Println("  PAYMENT SCHEDULE")
	fmt.Println(strings.Repeat("=", 52))
	fmt.Printf("  Down payment : %12s\n", p.DownPayment.StringFixed(2))
	fmt.Printf("  Principal    : %12s\n", p.Principal.StringFixed(2))
	fmt.Printf("  Interest     : %12s\n", p.InterestAmount.StringFixed(2))
	fmt.Printf("  Total payable: %12s\n", p.TotalPayable.StringFixed(2))
	fmt.Println(strings.Repeat("-", 52))
	fmt.Printf("  %-4s %-14s %12s\n", "#", "DUE DATE", "AMOUNT")
	fmt.Println(strings.Repeat("-", 52))
	for _, inst := range p.Installments {
		fmt.Printf("  %-4d %-14s %12s\n",
			inst.Sequence, inst.DueDate.Format("2006-01-02"), inst.Amount.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 52))
}

func printDraftLines(draft *core.DraftSale) {
	if len(draft.Lines) == 0 {
		fmt.Println("  Cart is empty.")
		return
	}
	fmt.Println(strings.Repeat("-", 64))
	fmt.Printf("  %-5s %-28s %6s %12s %10s\n", "LINE", "PRODUCT", "QTY", "UNIT PRICE", "TOTAL")
	fmt.Println(strings.Repeat("-", 64))
	for i, l := range draft.Lines {
		fmt.Printf("  %-5d %-28s %6d %12s %10s\n",
			i+1, l.ProductName, l.Quantity, l.UnitPrice.StringFixed(2), l.LineTotal().StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 64))
	fmt.Printf("  %51s %10s\n", "TOTAL:", draft.Total().StringFixed(2))
}

func printDraftSummary(draft *core.DraftSale, catalog *core.Catalog) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 64))
	fmt.Println("  SALE SUMMARY")
	fmt.Println(strings.Repeat("=", 64))
	if draft.CustomerID != nil {
		if customer, ok := catalog.FindCustomer(*draft.CustomerID); ok {
			fmt.Printf("  Customer: %s (id %d)\n", customer.Name, customer.ID)
		} else {
			fmt.Printf("  Customer: id %d\n", *draft.CustomerID)
		}
	}
	printDraftLines(draft)
	fmt.Printf("  Payment method: %s\n", draft.PaymentMethod)

	switch plan := draft.Plan.(type) {
	case core.FullPayment:
		fmt.Println("  Plan: full payment")
	case core.InstallmentPlan:
		fmt.Printf("  Plan: %d installments every %d %s(s), down %s, interest %s%%, starting %s\n",
			plan.Installments, plan.Every.Interval, plan.Every.Unit,
			plan.DownPayment.StringFixed(2), plan.InterestRatePercent.String(),
			plan.StartDate.Format("2006-01-02"))
	}
	fmt.Println(strings.Repeat("=", 64))
}

func printHelp() {
	fmt.Println(`
Commands:
  /catalog             Show customers and products (cached)
  /customers           Show customers only
  /products            Show products only
  /refresh             Refetch the catalog from the boundary
  /preview             Preview an installment schedule
  /sale                Start the four-step sale wizard
  /payment <id> <amt>  Record a payment against a sale
  /persona <name>      Switch persona (admin, salesperson)
  /whoami              Show the signed-in user
  /help                This help
  /exit                Quit`)
}
