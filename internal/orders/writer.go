package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/angelmondragon/ordering-backend/pkg/logger"
	"github.com/angelmondragon/ordering-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// Writer persists a draft as order, lines and modifiers.
type Writer interface {
	Write(ctx context.Context, draft *Draft) (*models.Order, error)
}

type writer struct {
	repo    Repository
	timeout time.Duration
	logg    *logger.Logger
	metrics *metrics.IntakeMetrics
}

// NewWriter builds the order writer. Each statement is bounded by timeout.
func NewWriter(repo Repository, timeout time.Duration, logg *logger.Logger, m *metrics.IntakeMetrics) (Writer, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("write timeout must be positive")
	}
	return &writer{repo: repo, timeout: timeout, logg: logg, metrics: m}, nil
}

// Write inserts the order row, then every line, then the modifiers of each line. The
// statements are not wrapped in a transaction; if any of them fails the rows
// already written are deleted in reverse order before WRITE_FAILED is returned.
// Once started, the sequence ignores caller cancellation.
func (w *writer) Write(ctx context.Context, draft *Draft) (*models.Order, error) {
	if draft == nil || draft.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order draft required")
	}
	ctx = context.WithoutCancel(ctx)
	order := draft.Order

	err := w.insert(ctx, draft)
	if err == nil {
		return order, nil
	}

	ctx = w.logg.WithFields(ctx, map[string]any{
		"order_id":     order.ID.String(),
		"branch_id":    order.BranchID.String(),
		"order_number": order.OrderNumber,
	})
	if cleanupErr := w.compensate(ctx, draft); cleanupErr != nil {
		w.metrics.IncCompensation(metrics.CompensationFailed)
		w.logg.Error(ctx, "orders.compensation_failed", multierr.Append(err, cleanupErr))
	} else {
		w.metrics.IncCompensation(metrics.CompensationOK)
		w.logg.Warn(w.logg.WithField(ctx, "error", err.Error()), "orders.write_compensated")
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "order could not be stored")
}

func (w *writer) insert(ctx context.Context, draft *Draft) error {
	order := draft.Order
	if err := w.step(ctx, func(ctx context.Context) error {
		return w.repo.InsertOrder(ctx, order)
	}); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		if err := w.step(ctx, func(ctx context.Context) error {
			return w.repo.InsertLine(ctx, line)
		}); err != nil {
			return fmt.Errorf("insert line %d: %w", line.Position, err)
		}
	}
	for i := range order.Lines {
		line := &order.Lines[i]
		if len(line.Modifiers) == 0 {
			continue
		}
		if err := w.step(ctx, func(ctx context.Context) error {
			return w.repo.InsertModifiers(ctx, line.Modifiers)
		}); err != nil {
			return fmt.Errorf("insert modifiers of line %d: %w", line.Position, err)
		}
	}
	return nil
}

// compensate deletes modifiers, lines and the order by id. Every delete runs
// even when an earlier one failed, and the result is checked by counting rows.
func (w *writer) compensate(ctx context.Context, draft *Draft) error {
	orderID := draft.Order.ID
	lineIDs := draft.LineIDs()

	var errs error
	errs = multierr.Append(errs, w.step(ctx, func(ctx context.Context) error {
		return w.repo.DeleteModifiersByLines(ctx, lineIDs)
	}))
	errs = multierr.Append(errs, w.step(ctx, func(ctx context.Context) error {
		return w.repo.DeleteLinesByOrder(ctx, orderID)
	}))
	errs = multierr.Append(errs, w.step(ctx, func(ctx context.Context) error {
		return w.repo.DeleteOrder(ctx, orderID)
	}))
	if errs != nil {
		return errs
	}

	var counts RowCounts
	if err := w.step(ctx, func(ctx context.Context) error {
		var err error
		counts, err = w.repo.CountRowsForOrder(ctx, orderID, lineIDs)
		return err
	}); err != nil {
		return fmt.Errorf("verify cleanup: %w", err)
	}
	if !counts.Empty() {
		return fmt.Errorf("rows left after cleanup: orders=%d lines=%d modifiers=%d", counts.Orders, counts.Lines, counts.Modifiers)
	}
	return nil
}

func (w *writer) step(ctx context.Context, fn func(ctx context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	return fn(stepCtx)
}
