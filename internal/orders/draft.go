package orders

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/ordering-backend/internal/delivery"
	"github.com/angelmondragon/ordering-backend/internal/lifecycle"
	"github.com/angelmondragon/ordering-backend/internal/pricing"
	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/google/uuid"
)

// Customer identifies who placed the order.
type Customer struct {
	ID    *uuid.UUID
	Name  string
	Phone string
	Email *string
}

// DraftInput is everything the intake has resolved before persisting.
type DraftInput struct {
	BranchID         uuid.UUID
	OrderNumber      int64
	Channel          string
	ServiceType      enums.ServiceType
	PaymentMethod    enums.PaymentMethod
	Lifecycle        lifecycle.Decision
	Lines            []pricing.ResolvedLine
	Delivery         delivery.Quote
	Customer         Customer
	DeliveryAddress  *string
	DeliveryPoint    *delivery.Point
	Notes            *string
	EstimatedMinutes int
}

// Draft is a fully identified order aggregate ready for the writer.
type Draft struct {
	Order *models.Order
}

// LineIDs returns the ids of every line in write order.
func (d *Draft) LineIDs() []uuid.UUID {
	if d == nil || d.Order == nil {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(d.Order.Lines))
	for _, line := range d.Order.Lines {
		ids = append(ids, line.ID)
	}
	return ids
}

// NewDraft assigns ids and a tracking code and checks that the stored totals
// add up: total = sum of line subtotals + delivery fee.
func NewDraft(in DraftInput) (*Draft, error) {
	if len(in.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line")
	}
	if in.OrderNumber <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order number not allocated")
	}

	order := &models.Order{
		ID:               uuid.New(),
		BranchID:         in.BranchID,
		OrderNumber:      in.OrderNumber,
		Status:           in.Lifecycle.Status,
		PaymentMethod:    in.PaymentMethod,
		PaymentStatus:    in.Lifecycle.PaymentStatus,
		ServiceType:      in.ServiceType,
		Channel:          in.Channel,
		DeliveryFeeCents: in.Delivery.AmountCents,
		DeliveryZoneID:   in.Delivery.ZoneID,
		DeliveryDegraded: in.Delivery.Degraded,
		CustomerID:       in.Customer.ID,
		CustomerName:     strings.TrimSpace(in.Customer.Name),
		CustomerPhone:    strings.TrimSpace(in.Customer.Phone),
		CustomerEmail:    in.Customer.Email,
		DeliveryAddress:  in.DeliveryAddress,
		Notes:            in.Notes,
		TrackingCode:     NewTrackingCode(),
		EstimatedMinutes: in.EstimatedMinutes,
	}
	if in.DeliveryPoint != nil {
		lat, lng := in.DeliveryPoint.Lat, in.DeliveryPoint.Lng
		order.DeliveryLat = &lat
		order.DeliveryLng = &lng
	}

	var subtotal int64
	order.Lines = make([]models.OrderLine, 0, len(in.Lines))
	for i, resolved := range in.Lines {
		if lineSubtotal(resolved) != resolved.SubtotalCents {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("line %d subtotal does not match its prices", i))
		}
		line := newLine(order.ID, i, resolved)
		subtotal += line.SubtotalCents
		order.Lines = append(order.Lines, line)
	}
	order.SubtotalCents = subtotal
	order.TotalCents = subtotal + order.DeliveryFeeCents

	if order.DeliveryFeeCents < 0 || order.TotalCents != sumLines(order.Lines)+order.DeliveryFeeCents {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order total does not match lines and delivery fee")
	}
	return &Draft{Order: order}, nil
}

// NewTrackingCode returns an unguessable public code for order tracking.
func NewTrackingCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func newLine(orderID uuid.UUID, position int, resolved pricing.ResolvedLine) models.OrderLine {
	line := models.OrderLine{
		ID:              uuid.New(),
		OrderID:         orderID,
		ItemID:          resolved.Item.ID,
		PromotionItemID: resolved.PromotionLineID,
		Name:            resolved.Item.Name,
		Category:        resolved.Item.Category,
		Station:         resolved.Item.Station,
		Quantity:        resolved.Quantity,
		UnitPriceCents:  resolved.UnitPriceCents,
		ExtrasCents:     resolved.ExtrasCents,
		SubtotalCents:   resolved.SubtotalCents,
		Position:        position,
	}
	if note := strings.TrimSpace(resolved.Note); note != "" {
		line.Note = &note
	}

	for _, extra := range resolved.Extras {
		line.Modifiers = append(line.Modifiers, models.OrderLineModifier{
			ID:             uuid.New(),
			OrderLineID:    line.ID,
			Kind:           enums.ModifierKindExtra,
			Name:           extra.Name,
			Quantity:       extra.Quantity,
			UnitPriceCents: extra.UnitPriceCents,
		})
	}
	line.Modifiers = appendNamed(line.Modifiers, line.ID, enums.ModifierKindInclusion, resolved.Inclusions)
	line.Modifiers = appendNamed(line.Modifiers, line.ID, enums.ModifierKindRemoval, resolved.Removals)
	return line
}

func appendNamed(mods []models.OrderLineModifier, lineID uuid.UUID, kind enums.ModifierKind, names []string) []models.OrderLineModifier {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		mods = append(mods, models.OrderLineModifier{
			ID:          uuid.New(),
			OrderLineID: lineID,
			Kind:        kind,
			Name:        name,
			Quantity:    1,
		})
	}
	return mods
}

func lineSubtotal(resolved pricing.ResolvedLine) int64 {
	subtotal := (resolved.UnitPriceCents + resolved.ExtrasCents) * int64(resolved.Quantity)
	if subtotal < 0 {
		return 0
	}
	return subtotal
}

func sumLines(lines []models.OrderLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.SubtotalCents
	}
	return total
}
