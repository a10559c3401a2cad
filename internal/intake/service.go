package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/ordering-backend/internal/catalog"
	"github.com/angelmondragon/ordering-backend/internal/delivery"
	"github.com/angelmondragon/ordering-backend/internal/lifecycle"
	"github.com/angelmondragon/ordering-backend/internal/orders"
	"github.com/angelmondragon/ordering-backend/internal/pricing"
	"github.com/angelmondragon/ordering-backend/internal/sequence"
	"github.com/angelmondragon/ordering-backend/pkg/db"
	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/angelmondragon/ordering-backend/pkg/logger"
	"github.com/angelmondragon/ordering-backend/pkg/metrics"
	"github.com/google/uuid"
)

// BranchReader loads branch ordering configuration.
type BranchReader interface {
	FindBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error)
}

// ProfileReader loads a registered customer's contact data.
type ProfileReader interface {
	FindProfile(ctx context.Context, id uuid.UUID) (*models.CustomerProfile, error)
}

// Service accepts public orders.
type Service interface {
	Submit(ctx context.Context, req Request) (*Result, error)
}

// Config carries the intake settings that are not collaborators.
type Config struct {
	Channel        string
	Location       *time.Location
	BranchTimeout  time.Duration
	ProfileTimeout time.Duration
}

// Deps wires the intake pipeline.
type Deps struct {
	Branches BranchReader
	Profiles ProfileReader
	Catalog  catalog.Resolver
	Delivery delivery.Resolver
	Sequence sequence.Allocator
	Writer   orders.Writer
	Logger   *logger.Logger
	Metrics  *metrics.IntakeMetrics
	Config   Config
	Clock    func() time.Time
	Observer Observer
}

type service struct {
	deps Deps
}

// NewService validates the wiring and returns the intake orchestrator.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Branches == nil:
		return nil, fmt.Errorf("branch reader required")
	case deps.Catalog == nil:
		return nil, fmt.Errorf("catalog resolver required")
	case deps.Delivery == nil:
		return nil, fmt.Errorf("delivery resolver required")
	case deps.Sequence == nil:
		return nil, fmt.Errorf("sequence allocator required")
	case deps.Writer == nil:
		return nil, fmt.Errorf("order writer required")
	case strings.TrimSpace(deps.Config.Channel) == "":
		return nil, fmt.Errorf("intake channel required")
	case deps.Config.BranchTimeout <= 0:
		return nil, fmt.Errorf("branch timeout must be positive")
	}
	if deps.Config.Location == nil {
		deps.Config.Location = time.UTC
	}
	if deps.Config.ProfileTimeout <= 0 {
		deps.Config.ProfileTimeout = deps.Config.BranchTimeout
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &service{deps: deps}, nil
}

// run tracks one request through the pipeline.
type run struct {
	svc   *service
	state State
	req   Request
}

func (r *run) enter(ctx context.Context, next State) error {
	if err := ctx.Err(); err != nil && next != StateDone {
		return pkgerrors.Upstream("intake", err)
	}
	r.state = next
	if r.svc.deps.Observer != nil {
		r.svc.deps.Observer(next)
	}
	return nil
}

// Submit walks validating, resolving_catalog, pricing, quoting_delivery,
// sequencing, classifying and writing. The first failure rejects the request
// with its original error code; nothing is retried here. Cancellation is
// honored up to the writing state and ignored after it.
func (s *service) Submit(ctx context.Context, req Request) (*Result, error) {
	started := s.deps.Clock()
	ctx = s.deps.Logger.WithBranchID(ctx, req.BranchID.String())
	r := &run{svc: s, req: req}

	result, serviceType, err := r.execute(ctx)
	elapsed := s.deps.Clock().Sub(started)
	if err != nil {
		code := pkgerrors.CodeOf(err)
		failedAt := r.state
		r.state = StateRejected
		if s.deps.Observer != nil {
			s.deps.Observer(StateRejected)
		}
		s.deps.Metrics.ObserveOutcome(string(code), serviceType, elapsed)
		logCtx := s.deps.Logger.WithFields(ctx, map[string]any{
			"state": string(failedAt),
			"code":  string(code),
		})
		if pkgerrors.MetadataFor(code).HTTPStatus >= 500 {
			s.deps.Logger.Error(logCtx, "intake.rejected", err)
		} else {
			s.deps.Logger.Warn(s.deps.Logger.WithField(logCtx, "error", err.Error()), "intake.rejected")
		}
		return nil, err
	}

	s.deps.Metrics.ObserveOutcome(metrics.OutcomeCreated, serviceType, elapsed)
	s.deps.Logger.Info(s.deps.Logger.WithFields(ctx, map[string]any{
		"order_id":     result.OrderID.String(),
		"order_number": result.OrderNumber,
		"status":       string(result.Status),
	}), "intake.order_created")
	return result, nil
}

func (r *run) execute(ctx context.Context) (*Result, string, error) {
	deps := r.svc.deps
	req := r.req

	if err := r.enter(ctx, StateValidating); err != nil {
		return nil, req.ServiceType, err
	}
	v, err := validateShape(req)
	if err != nil {
		return nil, req.ServiceType, err
	}
	serviceType := string(v.serviceType)

	branch, err := r.svc.loadBranch(ctx, req.BranchID)
	if err != nil {
		return nil, serviceType, err
	}
	if err := checkBranch(branch, v); err != nil {
		return nil, serviceType, err
	}
	customer := r.svc.backfillProfile(ctx, req.CustomerID, req.Customer)
	if err := checkContact(customer); err != nil {
		return nil, serviceType, err
	}

	if err := r.enter(ctx, StateResolvingCatalog); err != nil {
		return nil, serviceType, err
	}
	itemIDs := make([]uuid.UUID, 0, len(req.Lines))
	for _, line := range req.Lines {
		itemIDs = append(itemIDs, line.ItemID)
	}
	cat, err := deps.Catalog.Resolve(ctx, branch.ID, itemIDs)
	if err != nil {
		return nil, serviceType, err
	}
	if err := checkPurchasable(req.Lines, cat); err != nil {
		return nil, serviceType, err
	}

	if err := r.enter(ctx, StatePricing); err != nil {
		return nil, serviceType, err
	}
	moment := pricing.Moment{Channel: deps.Config.Channel, At: deps.Clock().In(deps.Config.Location)}
	lines, subtotal, err := pricing.PriceOrder(req.Lines, cat, moment)
	if err != nil {
		return nil, serviceType, err
	}

	if err := r.enter(ctx, StateQuotingDelivery); err != nil {
		return nil, serviceType, err
	}
	quote, err := deps.Delivery.Quote(ctx, deliveryInput(v.serviceType, branch, subtotal, req.Delivery))
	if err != nil {
		return nil, serviceType, err
	}

	if err := r.enter(ctx, StateSequencing); err != nil {
		return nil, serviceType, err
	}
	number, err := deps.Sequence.Next(ctx, branch.ID)
	if err != nil {
		return nil, serviceType, pkgerrors.Upstream("sequence", err)
	}

	if err := r.enter(ctx, StateClassifying); err != nil {
		return nil, serviceType, err
	}
	decision, err := lifecycle.Classify(v.paymentMethod, branch.AutoAccept)
	if err != nil {
		return nil, serviceType, err
	}

	draftIn := orders.DraftInput{
		BranchID:         branch.ID,
		OrderNumber:      number,
		Channel:          deps.Config.Channel,
		ServiceType:      v.serviceType,
		PaymentMethod:    v.paymentMethod,
		Lifecycle:        decision,
		Lines:            lines,
		Delivery:         quote,
		Customer:         orders.Customer{ID: req.CustomerID, Name: customer.Name, Phone: customer.Phone, Email: optional(customer.Email)},
		Notes:            optional(req.Notes),
		EstimatedMinutes: estimatedMinutes(v.serviceType, branch, quote),
	}
	if req.Delivery != nil && v.serviceType == enums.ServiceTypeDelivery {
		draftIn.DeliveryAddress = optional(req.Delivery.Address)
		draftIn.DeliveryPoint = point(req.Delivery)
	}
	draft, err := orders.NewDraft(draftIn)
	if err != nil {
		return nil, serviceType, err
	}

	// last point where cancellation is honored
	if err := r.enter(ctx, StateWriting); err != nil {
		return nil, serviceType, err
	}
	order, err := deps.Writer.Write(ctx, draft)
	if err != nil {
		return nil, serviceType, err
	}

	_ = r.enter(ctx, StateDone)
	return &Result{
		OrderID:          order.ID,
		TrackingCode:     order.TrackingCode,
		OrderNumber:      order.OrderNumber,
		Status:           order.Status,
		EstimatedMinutes: order.EstimatedMinutes,
	}, serviceType, nil
}

func (s *service) loadBranch(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.deps.Config.BranchTimeout)
	defer cancel()

	branch, err := s.deps.Branches.FindBranch(callCtx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found").
				WithDetails(map[string]any{"branch_id": id.String()})
		}
		return nil, pkgerrors.Upstream("branch", err)
	}
	return branch, nil
}

// backfillProfile fills empty contact fields from the customer's profile. Typed
// values always win, and a failing lookup only costs the backfill.
func (s *service) backfillProfile(ctx context.Context, customerID *uuid.UUID, in CustomerInput) CustomerInput {
	out := CustomerInput{
		Name:  strings.TrimSpace(in.Name),
		Phone: strings.TrimSpace(in.Phone),
		Email: strings.TrimSpace(in.Email),
	}
	if customerID == nil || s.deps.Profiles == nil {
		return out
	}
	if out.Name != "" && out.Phone != "" && out.Email != "" {
		return out
	}

	callCtx, cancel := context.WithTimeout(ctx, s.deps.Config.ProfileTimeout)
	defer cancel()

	profile, err := s.deps.Profiles.FindProfile(callCtx, *customerID)
	if err != nil {
		logCtx := s.deps.Logger.WithCustomerID(ctx, customerID.String())
		s.deps.Logger.Warn(s.deps.Logger.WithField(logCtx, "error", err.Error()), "intake.profile_backfill_failed")
		return out
	}
	if out.Name == "" {
		out.Name = strings.TrimSpace(profile.FullName)
	}
	if out.Phone == "" {
		out.Phone = strings.TrimSpace(profile.Phone)
	}
	if out.Email == "" {
		out.Email = strings.TrimSpace(profile.Email)
	}
	return out
}

func deliveryInput(serviceType enums.ServiceType, branch *models.Branch, subtotal int64, in *DeliveryInput) delivery.Input {
	out := delivery.Input{ServiceType: serviceType, Branch: branch, SubtotalCents: subtotal}
	if in == nil {
		return out
	}
	out.Point = point(in)
	out.ZoneID = in.ZoneID
	out.ClientEstimateCents = in.EstimateCents
	return out
}

func point(in *DeliveryInput) *delivery.Point {
	if in == nil || in.Lat == nil || in.Lng == nil {
		return nil
	}
	return &delivery.Point{Lat: *in.Lat, Lng: *in.Lng}
}

// estimatedMinutes prefers the delivery quote and falls back to branch prep times.
func estimatedMinutes(serviceType enums.ServiceType, branch *models.Branch, quote delivery.Quote) int {
	if quote.EstimatedMinutes != nil {
		return *quote.EstimatedMinutes
	}
	if serviceType == enums.ServiceTypeDelivery {
		return branch.DeliveryPrepMinutes
	}
	return branch.PickupPrepMinutes
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
