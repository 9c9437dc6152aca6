package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/konveksio/api/internal/database"
	"github.com/konveksio/api/internal/enum"
)

// transitionRule describes who may move an order into a given status.
type transitionRule struct {
	roles      []string // roles always allowed
	allowOwner bool     // the reseller who placed the order is also allowed
}

func adminOnly() transitionRule {
	return transitionRule{roles: []string{enum.RoleAdmin, enum.RoleSuperAdmin}}
}

func adminOrOwner() transitionRule {
	return transitionRule{roles: []string{enum.RoleAdmin, enum.RoleSuperAdmin}, allowOwner: true}
}

func workerOrAdmin(workerRole string) transitionRule {
	return transitionRule{roles: []string{workerRole, enum.RoleAdmin, enum.RoleSuperAdmin}}
}

// transitionRules is the fixed production policy: from-status → to-status →
// who may perform it. Any pair missing here is illegal (super_admin's
// forward override aside).
var transitionRules = map[string]map[string]transitionRule{
	enum.OrderStatusRequested: {
		enum.OrderStatusApproved:  adminOnly(),
		enum.OrderStatusCancelled: adminOrOwner(),
	},
	enum.OrderStatusApproved: {
		enum.OrderStatusProofing: adminOnly(),
	},
	enum.OrderStatusProofing: {
		enum.OrderStatusProofingApproved: adminOrOwner(),
		enum.OrderStatusCancelled:        adminOrOwner(),
	},
	enum.OrderStatusProofingApproved: {
		enum.OrderStatusDesainSetting: workerOrAdmin(enum.WorkerRoleForStage[enum.OrderStatusDesainSetting]),
	},
	enum.OrderStatusDesainSetting: {
		enum.OrderStatusPrinting: workerOrAdmin(enum.WorkerRoleForStage[enum.OrderStatusPrinting]),
	},
	enum.OrderStatusPrinting: {
		enum.OrderStatusPressing: workerOrAdmin(enum.WorkerRoleForStage[enum.OrderStatusPressing]),
	},
	enum.OrderStatusPressing: {
		enum.OrderStatusSewing: workerOrAdmin(enum.WorkerRoleForStage[enum.OrderStatusSewing]),
	},
	enum.OrderStatusSewing: {
		enum.OrderStatusPacking: workerOrAdmin(enum.WorkerRoleForStage[enum.OrderStatusPacking]),
	},
	enum.OrderStatusPacking: {
		enum.OrderStatusWaitingSettlement: adminOnly(),
	},
	enum.OrderStatusWaitingSettlement: {
		enum.OrderStatusCompleted: adminOnly(),
	},
}

// authorizeTransition checks the (current, target) pair against the policy
// table. Transition legality is checked before role authorization, so an
// unauthorized actor requesting an impossible transition still sees
// ErrInvalidTransition, not ErrForbidden.
//
// super_admin may additionally force any forward transition, an escape
// hatch for unsticking workflows. CANCELLED is never forward, and the
// override stops at WAITING_SETTLEMENT: COMPLETED is only reachable
// through Settle, which verifies the remaining balance.
func authorizeTransition(current, target string, actor Actor, ownerID uuid.UUID) error {
	rule, inTable := transitionRules[current][target]

	if actor.Role == enum.RoleSuperAdmin {
		if inTable ||
			(enum.IsForwardTransition(current, target) && target != enum.OrderStatusCompleted) {
			return nil
		}
		return ErrInvalidTransition
	}

	if !inTable {
		return ErrInvalidTransition
	}
	for _, r := range rule.roles {
		if actor.Role == r {
			return nil
		}
	}
	if rule.allowOwner && actor.Role == enum.RoleReseller && actor.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

// CanTransition reports whether actor may move an order owned by ownerID
// from current to target. Read-only variant for capability projections.
func CanTransition(current, target string, actor Actor, ownerID uuid.UUID) bool {
	return authorizeTransition(current, target, actor, ownerID) == nil
}

// Advance moves an order to targetStatus and appends the matching ledger
// entry. Status write and ledger append commit or roll back together. A
// concurrent transition on the same order surfaces as ErrConflict; the
// caller re-fetches and retries.
func (s *OrderService) Advance(ctx context.Context, orderID uuid.UUID, targetStatus string, actor Actor, evidenceLink string) (database.Order, error) {
	if !enum.IsValidOrderStatus(targetStatus) {
		return database.Order{}, ErrInvalidStatus
	}
	// COMPLETED carries the money invariant dp + settlement == total, so it
	// is only written by Settle. A plain advance would close the order with
	// settlement_amount still zero.
	if targetStatus == enum.OrderStatusCompleted {
		return database.Order{}, ErrInvalidTransition
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}

	if err := authorizeTransition(order.Status, targetStatus, actor, order.CreatedBy); err != nil {
		return database.Order{}, err
	}

	// Compare-and-swap: only write if the status we authorized against is
	// still current. A lost race rolls the whole transaction back.
	updated, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:             orderID,
		Status:         targetStatus,
		ExpectedStatus: order.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrConflict
		}
		return database.Order{}, fmt.Errorf("update order status: %w", err)
	}

	if _, err := store.InsertOrderProgress(ctx, database.InsertOrderProgressParams{
		OrderID:      orderID,
		Status:       targetStatus,
		LinkProgress: textOrNull(evidenceLink),
		CreatedBy:    actor.ID,
	}); err != nil {
		return database.Order{}, fmt.Errorf("insert progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}

	return updated, nil
}
