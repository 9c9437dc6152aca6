package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/konveksio/api/internal/database"
	"github.com/konveksio/api/internal/enum"
	"github.com/shopspring/decimal"
)

// SettleRequest is the input for completing an order.
type SettleRequest struct {
	OrderID         uuid.UUID
	Actor           Actor
	Amount          string // submitted settlement amount
	ProofSettlement string
	EvidenceLink    string
}

// Settle records the final payment and moves the order from
// WAITING_SETTLEMENT to COMPLETED. The submitted amount must equal the
// outstanding balance (total − DP) exactly: no partial settlement, no
// overpayment. On any failure the order and its ledger are untouched.
func (s *OrderService) Settle(ctx context.Context, req SettleRequest) (database.Order, error) {
	if req.Amount == "" {
		return database.Order{}, ErrAmountRequired
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return database.Order{}, ErrAmountRequired
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// Row lock serializes concurrent settlement attempts on the same order.
	order, err := store.GetOrderForUpdate(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}

	if err := authorizeTransition(order.Status, enum.OrderStatusCompleted, req.Actor, order.CreatedBy); err != nil {
		return database.Order{}, err
	}

	remaining := numericToDecimal(order.TotalAmount).Sub(numericToDecimal(order.DpAmount))
	if amount.LessThan(remaining) {
		return database.Order{}, ErrInsufficientAmount
	}
	if amount.GreaterThan(remaining) {
		return database.Order{}, ErrOverpayment
	}

	updated, err := store.SettleOrder(ctx, database.SettleOrderParams{
		ID:               req.OrderID,
		SettlementAmount: decimalToNumeric(amount),
		ProofSettlement:  textOrNull(req.ProofSettlement),
		ExpectedStatus:   order.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrConflict
		}
		return database.Order{}, fmt.Errorf("settle order: %w", err)
	}

	if _, err := store.InsertOrderProgress(ctx, database.InsertOrderProgressParams{
		OrderID:      req.OrderID,
		Status:       enum.OrderStatusCompleted,
		LinkProgress: textOrNull(req.EvidenceLink),
		CreatedBy:    req.Actor.ID,
	}); err != nil {
		return database.Order{}, fmt.Errorf("insert progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}

	return updated, nil
}
