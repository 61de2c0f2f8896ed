// Package cli runs one-shot commands for scripting, reading JSON from
// stdin and writing JSON to stdout.
package cli

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"salesflow/internal/app"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "preview", "prev", "p":
		var req struct {
			TotalAmount         decimal.Decimal `json:"total_amount"`
			DownPayment         decimal.Decimal `json:"down_payment"`
			InterestRatePercent decimal.Decimal `json:"interest_rate_percent"`
			Installments        int             `json:"installments"`
			RecurrenceUnit      string          `json:"recurrence_unit"`
			RecurrenceInterval  int             `json:"recurrence_interval"`
			StartDate           string          `json:"start_date"`
		}
		if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.PreviewSchedule(app.PreviewScheduleRequest{
			TotalAmount:         req.TotalAmount,
			DownPayment:         req.DownPayment,
			InterestRatePercent: req.InterestRatePercent,
			Installments:        req.Installments,
			RecurrenceUnit:      req.RecurrenceUnit,
			RecurrenceInterval:  req.RecurrenceInterval,
			StartDate:           req.StartDate,
		})
		if err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result.Projection)

	case "catalog", "cat":
		result, err := svc.RefreshCatalog(ctx)
		if err != nil {
			log.Fatalf("Catalog fetch failed: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result.Catalog)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: preview, catalog", args[0])
	}
}
