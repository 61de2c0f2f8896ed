package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"salesflow/internal/app"
	"salesflow/internal/core"
)

// planPayload is the JSON shape of a payment plan. Kind selects the
// variant: "full" ignores the remaining fields, "installment" uses them.
type planPayload struct {
	Kind                string          `json:"kind"`
	DownPayment         decimal.Decimal `json:"down_payment"`
	InterestRatePercent decimal.Decimal `json:"interest_rate_percent"`
	Installments        int             `json:"installments"`
	RecurrenceUnit      string          `json:"recurrence_unit"`
	RecurrenceInterval  int             `json:"recurrence_interval"`
	StartDate           string          `json:"start_date"`
}

func (p planPayload) toPlan() (core.PaymentPlan, error) {
	switch p.Kind {
	case "full":
		return core.FullPayment{}, nil
	case "installment":
		unit, err := core.ParseRecurrenceUnit(p.RecurrenceUnit)
		if err != nil {
			return nil, &app.ValidationError{Field: "plan.recurrence_unit", Reason: err.Error()}
		}
		start := time.Now().UTC().Truncate(24 * time.Hour)
		if p.StartDate != "" {
			start, err = time.Parse("2006-01-02", p.StartDate)
			if err != nil {
				return nil, &app.ValidationError{Field: "plan.start_date", Reason: "must be YYYY-MM-DD"}
			}
		}
		return core.InstallmentPlan{
			DownPayment:         p.DownPayment,
			InterestRatePercent: p.InterestRatePercent,
			Installments:        p.Installments,
			Every:               core.Recurrence{Unit: unit, Interval: p.RecurrenceInterval},
			StartDate:           start,
		}, nil
	default:
		return nil, &app.ValidationError{Field: "plan.kind", Reason: `must be "full" or "installment"`}
	}
}

// catalog handles GET /api/catalog. ?refresh=true bypasses the cache.
func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	var (
		result *app.CatalogResult
		err    error
	)
	if q := r.URL.Query().Get("refresh"); q == "true" || q == "1" {
		result, err = h.svc.RefreshCatalog(r.Context())
	} else {
		result, err = h.svc.FetchCatalog(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Customers []core.Customer `json:"customers"`
		Products  []core.Product  `json:"products"`
		FetchedAt time.Time       `json:"fetched_at"`
		FromCache bool            `json:"from_cache"`
	}
	writeJSON(w, response{
		Customers: result.Catalog.Customers,
		Products:  result.Catalog.Products,
		FetchedAt: result.Catalog.FetchedAt,
		FromCache: result.FromCache,
	})
}

type installmentLine struct {
	Sequence int    `json:"sequence"`
	DueDate  string `json:"due_date"`
	Amount   string `json:"amount"`
}

type projectionResponse struct {
	Principal      string            `json:"principal"`
	InterestAmount string            `json:"interest_amount"`
	TotalPayable   string            `json:"total_payable"`
	DownPayment    string            `json:"down_payment"`
	Installments   []installmentLine `json:"installments"`
}

func toProjectionResponse(p *core.Projection) projectionResponse {
	lines := make([]installmentLine, 0, len(p.Installments))
	for _, inst := range p.Installments {
		lines = append(lines, installmentLine{
			Sequence: inst.Sequence,
			DueDate:  inst.DueDate.Format("2006-01-02"),
			Amount:   inst.Amount.StringFixed(2),
		})
	}
	return projectionResponse{
		Principal:      p.Principal.StringFixed(2),
		InterestAmount: p.InterestAmount.StringFixed(2),
		TotalPayable:   p.TotalPayable.StringFixed(2),
		DownPayment:    p.DownPayment.StringFixed(2),
		Installments:   lines,
	}
}

// previewSchedule handles POST /api/schedule/preview.
func (h *Handler) previewSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalAmount         decimal.Decimal `json:"total_amount"`
		DownPayment         decimal.Decimal `json:"down_payment"`
		InterestRatePercent decimal.Decimal `json:"interest_rate_percent"`
		Installments        int             `json:"installments"`
		RecurrenceUnit      string          `json:"recurrence_unit"`
		RecurrenceInterval  int             `json:"recurrence_interval"`
		StartDate           string          `json:"start_date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.PreviewSchedule(app.PreviewScheduleRequest{
		TotalAmount:         req.TotalAmount,
		DownPayment:         req.DownPayment,
		InterestRatePercent: req.InterestRatePercent,
		Installments:        req.Installments,
		RecurrenceUnit:      req.RecurrenceUnit,
		RecurrenceInterval:  req.RecurrenceInterval,
		StartDate:           req.StartDate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, toProjectionResponse(result.Projection))
}

// commitSale handles POST /api/sales.
func (h *Handler) commitSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID int `json:"customer_id"`
		Lines      []struct {
			ProductID int             `json:"product_id"`
			Quantity  int             `json:"quantity"`
			UnitPrice decimal.Decimal `json:"unit_price"`
		} `json:"lines"`
		Plan          planPayload `json:"plan"`
		PaymentMethod string      `json:"payment_method"`
		ReferenceCode string      `json:"reference_code"`
		Notes         string      `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := req.Plan.toPlan()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	lines := make([]app.SaleLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, app.SaleLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	result, err := h.svc.CommitSale(r.Context(), app.CommitSaleRequest{
		CustomerID:    req.CustomerID,
		Lines:         lines,
		Plan:          plan,
		PaymentMethod: req.PaymentMethod,
		ReferenceCode: req.ReferenceCode,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		SaleID  int    `json:"sale_id,omitempty"`
	}
	// A rejected sale is not a transport error; relay the verdict verbatim.
	if !result.Success {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	writeJSON(w, response{Success: result.Success, Message: result.Message, SaleID: result.SaleID})
}

// recordPayment handles POST /api/sales/{id}/payments.
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || saleID <= 0 {
		writeError(w, r, "invalid sale id", "VALIDATION", http.StatusBadRequest)
		return
	}

	var req struct {
		Amount        decimal.Decimal `json:"amount"`
		PaymentMethod string          `json:"payment_method"`
		ReferenceCode string          `json:"reference_code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.RecordPayment(r.Context(), app.RecordPaymentRequest{
		SaleID:        saleID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		ReferenceCode: req.ReferenceCode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	type response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if !result.Success {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	writeJSON(w, response{Success: result.Success, Message: result.Message})
}
