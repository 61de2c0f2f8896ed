package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salesflow/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Client invokes the named SQL functions of the hosted database service over
// a pgx pool. Each method is one RPC: parameters in, a small result record or
// row set out. Nothing here interprets business rules — the database does.
type Client struct {
	pool *pgxpool.Pool
	log  *logrus.Logger
}

// NewClient constructs the production boundary client.
func NewClient(pool *pgxpool.Pool, log *logrus.Logger) *Client {
	return &Client{pool: pool, log: log}
}

// CommitSale invokes process_sale. The payment-plan variant decides the call
// shape: a full payment sends a single-settlement request, an installment
// plan sends the complete recurrence configuration. The server derives its
// own schedule from these parameters; any client-side preview is discarded.
func (c *Client) CommitSale(ctx context.Context, req CommitSaleRequest) (*CommitSaleResult, error) {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sale items: %w", err)
	}

	var row pgx.Row
	switch plan := req.Plan.(type) {
	case core.FullPayment:
		row = c.pool.QueryRow(ctx, `
			SELECT success, message, sale_id
			FROM process_sale($1, $2, 'full', NULL, NULL, NULL, NULL, NULL, NULL, $3, $4, $5)
		`, req.CustomerID, items, req.PaymentMethod, req.ReferenceCode, req.Notes)
	case core.InstallmentPlan:
		row = c.pool.QueryRow(ctx, `
			SELECT success, message, sale_id
			FROM process_sale($1, $2, 'installment', $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, req.CustomerID, items,
			plan.DownPayment, plan.InterestRatePercent, plan.Installments,
			string(plan.Every.Unit), plan.Every.Interval, plan.StartDate,
			req.PaymentMethod, req.ReferenceCode, req.Notes)
	default:
		return nil, fmt.Errorf("unsupported payment plan type %T", req.Plan)
	}

	var result CommitSaleResult
	var saleID *int
	if err := row.Scan(&result.Success, &result.Message, &saleID); err != nil {
		return nil, fmt.Errorf("process_sale call failed: %w", err)
	}
	if saleID != nil {
		result.SaleID = *saleID
	}

	c.log.WithFields(logrus.Fields{
		"customer_id": req.CustomerID,
		"success":     result.Success,
		"sale_id":     result.SaleID,
	}).Info("process_sale completed")
	return &result, nil
}

// RecordPayment invokes record_sale_payment.
func (c *Client) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*Status, error) {
	var status Status
	err := c.pool.QueryRow(ctx, `
		SELECT success, message
		FROM record_sale_payment($1, $2, $3, $4)
	`, req.SaleID, req.Amount, req.PaymentMethod, req.ReferenceCode).Scan(&status.Success, &status.Message)
	if err != nil {
		return nil, fmt.Errorf("record_sale_payment call failed: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"sale_id": req.SaleID,
		"amount":  req.Amount.String(),
		"success": status.Success,
	}).Info("record_sale_payment completed")
	return &status, nil
}

// FetchCatalog invokes fetch_catalog and decodes its JSON document.
func (c *Client) FetchCatalog(ctx context.Context) (*core.Catalog, error) {
	var payload []byte
	if err := c.pool.QueryRow(ctx, "SELECT fetch_catalog()").Scan(&payload); err != nil {
		return nil, fmt.Errorf("fetch_catalog call failed: %w", err)
	}

	var catalog core.Catalog
	if err := json.Unmarshal(payload, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog payload: %w", err)
	}
	catalog.FetchedAt = time.Now()
	return &catalog, nil
}

// VerifyCredentials invokes verify_credentials. A wrong password comes back
// as a business failure row, not an error.
func (c *Client) VerifyCredentials(ctx context.Context, username, password string) (*CredentialResult, error) {
	var result CredentialResult
	var userID *int
	var name *string
	err := c.pool.QueryRow(ctx, `
		SELECT success, message, user_id, username
		FROM verify_credentials($1, $2)
	`, username, password).Scan(&result.Success, &result.Message, &userID, &name)
	if err != nil {
		return nil, fmt.Errorf("verify_credentials call failed: %w", err)
	}
	if userID != nil {
		result.UserID = *userID
	}
	if name != nil {
		result.Username = *name
	}
	return &result, nil
}
