package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/ordering-backend/pkg/db"
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
)

// TrackingLine is the public summary of one order line.
type TrackingLine struct {
	Name          string   `json:"name"`
	Quantity      int      `json:"quantity"`
	SubtotalCents int64    `json:"subtotal_cents"`
	Modifiers     []string `json:"modifiers,omitempty"`
}

// TrackingView is what an anonymous holder of the tracking code may see.
type TrackingView struct {
	OrderNumber      int64               `json:"order_number"`
	Status           enums.OrderStatus   `json:"status"`
	PaymentStatus    enums.PaymentStatus `json:"payment_status"`
	ServiceType      enums.ServiceType   `json:"service_type"`
	SubtotalCents    int64               `json:"subtotal_cents"`
	DeliveryFeeCents int64               `json:"delivery_fee_cents"`
	TotalCents       int64               `json:"total_cents"`
	EstimatedMinutes int                 `json:"estimated_minutes"`
	CreatedAt        time.Time           `json:"created_at"`
	Lines            []TrackingLine      `json:"lines"`
}

// Tracker looks orders up by tracking code.
type Tracker interface {
	Track(ctx context.Context, code string) (*TrackingView, error)
}

type tracker struct {
	repo    Repository
	timeout time.Duration
}

// NewTracker builds the public tracking service.
func NewTracker(repo Repository, timeout time.Duration) (Tracker, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("tracking timeout must be positive")
	}
	return &tracker{repo: repo, timeout: timeout}, nil
}

func (t *tracker) Track(ctx context.Context, code string) (*TrackingView, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking code required")
	}

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	order, err := t.repo.FindByTrackingCode(callCtx, code)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Upstream("orders", err)
	}

	view := &TrackingView{
		OrderNumber:      order.OrderNumber,
		Status:           order.Status,
		PaymentStatus:    order.PaymentStatus,
		ServiceType:      order.ServiceType,
		SubtotalCents:    order.SubtotalCents,
		DeliveryFeeCents: order.DeliveryFeeCents,
		TotalCents:       order.TotalCents,
		EstimatedMinutes: order.EstimatedMinutes,
		CreatedAt:        order.CreatedAt,
		Lines:            make([]TrackingLine, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		summary := TrackingLine{Name: line.Name, Quantity: line.Quantity, SubtotalCents: line.SubtotalCents}
		for _, mod := range line.Modifiers {
			summary.Modifiers = append(summary.Modifiers, describeModifier(mod.Kind, mod.Name, mod.Quantity))
		}
		view.Lines = append(view.Lines, summary)
	}
	return view, nil
}

func describeModifier(kind enums.ModifierKind, name string, qty int) string {
	switch kind {
	case enums.ModifierKindRemoval:
		return "no " + name
	case enums.ModifierKindExtra:
		if qty > 1 {
			return fmt.Sprintf("extra %s x%d", name, qty)
		}
		return "extra " + name
	default:
		return name
	}
}
