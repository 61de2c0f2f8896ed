package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"salesflow/internal/cache"
	"salesflow/internal/core"
	"salesflow/internal/rpc"
)

type appService struct {
	boundary rpc.Boundary
	catalog  cache.CatalogCache
	throttle *loginThrottle
	log      *logrus.Logger
}

// NewAppService builds the application service on top of an RPC boundary
// and a catalog cache.
func NewAppService(boundary rpc.Boundary, catalogCache cache.CatalogCache, log *logrus.Logger) ApplicationService {
	if log == nil {
		log = logrus.New()
	}
	return &appService{
		boundary: boundary,
		catalog:  catalogCache,
		throttle: newLoginThrottle(loginCooldown),
		log:      log,
	}
}

// ── auth ──

func (s *appService) Login(ctx context.Context, username, password string) (*core.Session, error) {
	if username == "" {
		return nil, &ValidationError{Field: "username", Reason: "is required"}
	}
	if remaining := s.throttle.Remaining(username); remaining > 0 {
		return nil, &CooldownError{Remaining: remaining}
	}

	result, err := s.boundary.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}
	if !result.Success {
		s.throttle.RecordFailure(username)
		s.log.WithField("username", username).Warn("login rejected")
		return nil, &AuthError{Message: result.Message}
	}

	s.throttle.Clear(username)
	return &core.Session{
		UserID:   result.UserID,
		Username: result.Username,
		IssuedAt: time.Now().UTC(),
	}, nil
}

func (s *appService) SelectPersona(session core.Session, persona string) (*core.Session, error) {
	p, err := core.ParsePersona(persona)
	if err != nil {
		return nil, &ValidationError{Field: "persona", Reason: err.Error()}
	}
	next := session.WithPersona(p)
	return &next, nil
}

// ── catalog ──

func (s *appService) FetchCatalog(ctx context.Context) (*CatalogResult, error) {
	cached, err := s.catalog.Get(ctx)
	if err == nil {
		return &CatalogResult{Catalog: cached, FromCache: true}, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.WithError(err).Warn("catalog cache read failed")
	}
	return s.RefreshCatalog(ctx)
}

func (s *appService) RefreshCatalog(ctx context.Context) (*CatalogResult, error) {
	catalog, err := s.boundary.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if err := s.catalog.Set(ctx, catalog); err != nil {
		s.log.WithError(err).Warn("catalog cache write failed")
	}
	return &CatalogResult{Catalog: catalog}, nil
}

// ── schedule preview ──

func (s *appService) PreviewSchedule(req PreviewScheduleRequest) (*PreviewResult, error) {
	unit, err := core.ParseRecurrenceUnit(req.RecurrenceUnit)
	if err != nil {
		return nil, &ValidationError{Field: "recurrence_unit", Reason: err.Error()}
	}

	start := time.Now().UTC().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		start, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, &ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
		}
	}

	projection, err := core.ProjectSchedule(core.ProjectionInput{
		TotalAmount:         req.TotalAmount,
		DownPayment:         req.DownPayment,
		InterestRatePercent: req.InterestRatePercent,
		Installments:        req.Installments,
		Every:               core.Recurrence{Unit: unit, Interval: req.RecurrenceInterval},
		StartDate:           start,
	})
	if err != nil {
		return nil, &ValidationError{Field: "schedule", Reason: err.Error()}
	}
	return &PreviewResult{Projection: projection}, nil
}

// ── sales ──

func (s *appService) CommitSale(ctx context.Context, req CommitSaleRequest) (*CommitResult, error) {
	if req.CustomerID <= 0 {
		return nil, &ValidationError{Field: "customer_id", Reason: "is required"}
	}
	if len(req.Lines) == 0 {
		return nil, &ValidationError{Field: "lines", Reason: "at least one line is required"}
	}
	if req.Plan == nil {
		return nil, &ValidationError{Field: "plan", Reason: "is required"}
	}
	if err := req.Plan.Validate(); err != nil {
		return nil, &ValidationError{Field: "plan", Reason: err.Error()}
	}

	items, err := s.resolveItems(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	reference := req.ReferenceCode
	if reference == "" {
		reference = uuid.NewString()
	}

	result, err := s.boundary.CommitSale(ctx, rpc.CommitSaleRequest{
		CustomerID:    req.CustomerID,
		Items:         items,
		Plan:          req.Plan,
		PaymentMethod: req.PaymentMethod,
		ReferenceCode: reference,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	out := &CommitResult{Success: result.Success, Message: result.Message, SaleID: result.SaleID}
	s.log.WithFields(logrus.Fields{
		"customer_id": req.CustomerID,
		"success":     result.Success,
		"sale_id":     out.SaleID,
	}).Info("sale submitted")
	return out, nil
}

// resolveItems turns cart lines into boundary items, filling zero prices
// from the catalog.
func (s *appService) resolveItems(ctx context.Context, lines []SaleLineInput) ([]rpc.SaleItem, error) {
	var catalog *core.Catalog
	items := make([]rpc.SaleItem, 0, len(lines))
	for i, line := range lines {
		if line.ProductID <= 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].product_id", i), Reason: "is required"}
		}
		if line.Quantity < 1 {
			return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].quantity", i), Reason: "must be at least 1"}
		}
		price := line.UnitPrice
		if price.IsZero() {
			if catalog == nil {
				result, err := s.FetchCatalog(ctx)
				if err != nil {
					return nil, err
				}
				catalog = result.Catalog
			}
			product, ok := catalog.FindProduct(line.ProductID)
			if !ok {
				return nil, &ValidationError{Field: fmt.Sprintf("lines[%d].product_id", i), Reason: "unknown product"}
			}
			price = product.UnitPrice
		}
		items = append(items, rpc.SaleItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: price,
			LineTotal: price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return items, nil
}

func (s *appService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error) {
	if req.SaleID <= 0 {
		return nil, &ValidationError{Field: "sale_id", Reason: "is required"}
	}
	if !req.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	result, err := s.boundary.RecordPayment(ctx, rpc.RecordPaymentRequest{
		SaleID:        req.SaleID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		ReferenceCode: req.ReferenceCode,
	})
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"sale_id": req.SaleID,
		"success": result.Success,
	}).Info("payment submitted")
	return &PaymentResult{Success: result.Success, Message: result.Message}, nil
}
