package sequence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/ordering-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	component = "sequence"
	counterNS = "order_seq"
)

const upsertNextSQL = `
INSERT INTO order_sequences (branch_id, last_value)
VALUES (?, 1)
ON CONFLICT (branch_id)
DO UPDATE SET last_value = order_sequences.last_value + 1
RETURNING last_value`

// Allocator hands out per-branch order numbers. Numbers are unique and
// increasing per branch; gaps are allowed when a later write fails.
type Allocator interface {
	Next(ctx context.Context, branchID uuid.UUID) (int64, error)
}

// Counter is the atomic increment surface of the redis client.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(parts ...string) string
}

// New selects the allocator backend named in the intake config.
func New(backend string, db *gorm.DB, counter Counter, timeout time.Duration) (Allocator, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("sequence timeout must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case config.SequenceBackendPostgres, "":
		if db == nil {
			return nil, fmt.Errorf("db required for %s sequence backend", config.SequenceBackendPostgres)
		}
		return &PostgresAllocator{db: db, timeout: timeout}, nil
	case config.SequenceBackendRedis:
		if counter == nil {
			return nil, fmt.Errorf("redis client required for %s sequence backend", config.SequenceBackendRedis)
		}
		return &RedisAllocator{counter: counter, timeout: timeout}, nil
	default:
		return nil, fmt.Errorf("unknown sequence backend %q", backend)
	}
}

// PostgresAllocator increments a per-branch row with a single upsert statement.
type PostgresAllocator struct {
	db      *gorm.DB
	timeout time.Duration
}

// Next implements Allocator.
func (a *PostgresAllocator) Next(ctx context.Context, branchID uuid.UUID) (int64, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var next int64
	if err := a.db.WithContext(callCtx).Raw(upsertNextSQL, branchID).Scan(&next).Error; err != nil {
		return 0, pkgerrors.Upstream(component, err)
	}
	return checked(next)
}

// RedisAllocator increments a per-branch redis counter.
type RedisAllocator struct {
	counter Counter
	timeout time.Duration
}

// Next implements Allocator.
func (a *RedisAllocator) Next(ctx context.Context, branchID uuid.UUID) (int64, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	next, err := a.counter.Incr(callCtx, a.counter.CounterKey(counterNS, branchID.String()))
	if err != nil {
		return 0, pkgerrors.Upstream(component, err)
	}
	return checked(next)
}

func checked(next int64) (int64, error) {
	if next <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeStorage, "sequence returned a non-positive number").
			WithDetails(map[string]any{"component": component})
	}
	return next, nil
}
