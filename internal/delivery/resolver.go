package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/ordering-backend/pkg/db"
	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/angelmondragon/ordering-backend/pkg/logger"
	"github.com/angelmondragon/ordering-backend/pkg/metrics"
	"github.com/google/uuid"
)

const component = "delivery"

// Strategy names how a quote was produced.
type Strategy string

const (
	StrategyNone     Strategy = "none"
	StrategyGeocoded Strategy = "geocoded"
	StrategyZone     Strategy = "zone"
	StrategyStatic   Strategy = "static"
)

// Degradation reasons recorded on geocoded fallbacks.
const (
	ReasonOutOfArea = "out_of_area"
	ReasonTimeout   = "timeout"
	ReasonError     = "error"
)

// Point is a delivery destination.
type Point struct {
	Lat float64
	Lng float64
}

// Input carries everything needed to quote one order.
type Input struct {
	ServiceType         enums.ServiceType
	Branch              *models.Branch
	SubtotalCents       int64
	Point               *Point
	ZoneID              *uuid.UUID
	ClientEstimateCents *int64
}

// Quote is the delivery surcharge computed once per request.
type Quote struct {
	AmountCents      int64
	ZoneID           *uuid.UUID
	EstimatedMinutes *int
	Strategy         Strategy
	Degraded         bool
	DegradedReason   string
}

// GeoQuote is the answer of the geodistance pricing collaborator.
type GeoQuote struct {
	Available     bool
	CostCents     int64
	TravelMinutes int
}

// GeoQuoter prices a delivery by destination coordinates.
type GeoQuoter interface {
	QuoteByCoordinates(ctx context.Context, branch *models.Branch, point Point) (GeoQuote, error)
}

// ZoneReader loads a delivery zone.
type ZoneReader interface {
	FindZone(ctx context.Context, id uuid.UUID) (*models.DeliveryZone, error)
}

// Resolver computes delivery surcharges.
type Resolver interface {
	Quote(ctx context.Context, in Input) (Quote, error)
}

type resolver struct {
	geo     GeoQuoter
	zones   ZoneReader
	timeout time.Duration
	logg    *logger.Logger
	metrics *metrics.IntakeMetrics
}

// NewResolver builds the delivery cost resolver.
func NewResolver(geo GeoQuoter, zones ZoneReader, timeout time.Duration, logg *logger.Logger, m *metrics.IntakeMetrics) (Resolver, error) {
	if geo == nil {
		return nil, fmt.Errorf("geo quoter required")
	}
	if zones == nil {
		return nil, fmt.Errorf("zone reader required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("delivery timeout must be positive")
	}
	return &resolver{geo: geo, zones: zones, timeout: timeout, logg: logg, metrics: m}, nil
}

// Quote tries coordinates first, then the zone table, then the branch static rule.
// A client estimate is only ever used as the degraded fallback of the geocoded path.
func (r *resolver) Quote(ctx context.Context, in Input) (Quote, error) {
	if in.ServiceType != enums.ServiceTypeDelivery {
		return Quote{Strategy: StrategyNone}, nil
	}
	if in.Branch == nil {
		return Quote{}, pkgerrors.New(pkgerrors.CodeInternal, "branch required for delivery quote")
	}
	switch {
	case in.Point != nil:
		return r.quoteGeocoded(ctx, in), nil
	case in.ZoneID != nil:
		return r.quoteZone(ctx, in)
	default:
		return quoteStatic(in)
	}
}

func (r *resolver) quoteGeocoded(ctx context.Context, in Input) Quote {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	geo, err := r.geo.QuoteByCoordinates(callCtx, in.Branch, *in.Point)
	if err == nil && geo.Available {
		quote := Quote{AmountCents: nonNegative(geo.CostCents), Strategy: StrategyGeocoded}
		if geo.TravelMinutes > 0 {
			minutes := in.Branch.DeliveryPrepMinutes + geo.TravelMinutes
			quote.EstimatedMinutes = &minutes
		}
		return quote
	}

	reason := ReasonOutOfArea
	if err != nil {
		reason = ReasonError
		if pkgerrors.IsCode(pkgerrors.Upstream(component, err), pkgerrors.CodeUpstreamTimeout) {
			reason = ReasonTimeout
		}
	}

	quote := Quote{Strategy: StrategyGeocoded, Degraded: true, DegradedReason: reason}
	if in.ClientEstimateCents != nil {
		quote.AmountCents = nonNegative(*in.ClientEstimateCents)
	}

	fields := map[string]any{
		"branch_id":       in.Branch.ID.String(),
		"reason":          reason,
		"fallback_cents":  quote.AmountCents,
		"client_estimate": in.ClientEstimateCents != nil,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	r.logg.Warn(r.logg.WithFields(ctx, fields), "delivery.quote_degraded")
	r.metrics.IncDeliveryDegraded(reason)
	return quote
}

func (r *resolver) quoteZone(ctx context.Context, in Input) (Quote, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	zone, err := r.zones.FindZone(callCtx, *in.ZoneID)
	if err != nil {
		if db.IsNotFound(err) {
			return Quote{}, zoneNotFound(*in.ZoneID)
		}
		return Quote{}, pkgerrors.Upstream(component, err)
	}
	if zone.BranchID != in.Branch.ID {
		return Quote{}, zoneNotFound(*in.ZoneID)
	}
	if !zone.Active {
		return Quote{}, pkgerrors.New(pkgerrors.CodeZoneInactive, "delivery zone is disabled").
			WithDetails(map[string]any{"zone_id": zone.ID.String()})
	}
	if err := checkMinimum(in.SubtotalCents, zone.MinOrderCents); err != nil {
		return Quote{}, err
	}

	zoneID := zone.ID
	quote := Quote{AmountCents: nonNegative(zone.FeeCents), ZoneID: &zoneID, Strategy: StrategyZone}
	if zone.EstimatedMinutes != nil && *zone.EstimatedMinutes > 0 {
		minutes := *zone.EstimatedMinutes
		quote.EstimatedMinutes = &minutes
	}
	return quote, nil
}

func quoteStatic(in Input) (Quote, error) {
	if err := checkMinimum(in.SubtotalCents, in.Branch.StaticMinOrder); err != nil {
		return Quote{}, err
	}
	return Quote{AmountCents: nonNegative(in.Branch.StaticDeliveryFee), Strategy: StrategyStatic}, nil
}

func checkMinimum(subtotal, minimum int64) error {
	if minimum > 0 && subtotal < minimum {
		return pkgerrors.New(pkgerrors.CodeBelowMinimum, "order subtotal is below the delivery minimum").
			WithDetails(map[string]any{
				"minimum_cents":  minimum,
				"subtotal_cents": subtotal,
			})
	}
	return nil
}

func zoneNotFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "delivery zone not found").
		WithDetails(map[string]any{"zone_id": id.String()})
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
