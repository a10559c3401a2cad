package orders

import (
	"testing"

	"github.com/angelmondragon/ordering-backend/internal/catalog"
	"github.com/angelmondragon/ordering-backend/internal/delivery"
	"github.com/angelmondragon/ordering-backend/internal/lifecycle"
	"github.com/angelmondragon/ordering-backend/internal/pricing"
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/google/uuid"
)

func TestNewDraftBuildsAggregate(t *testing.T) {
	zoneID := uuid.New()
	in := sampleDraftInput()
	in.Delivery = delivery.Quote{AmountCents: 4500, ZoneID: &zoneID, Strategy: delivery.StrategyZone}
	in.DeliveryPoint = &delivery.Point{Lat: 19.4, Lng: -99.1}

	draft, err := NewDraft(in)
	if err != nil {
		t.Fatalf("new draft: %v", err)
	}
	order := draft.Order
	if order.SubtotalCents != 3100 || order.DeliveryFeeCents != 4500 || order.TotalCents != 7600 {
		t.Fatalf("unexpected totals %d + %d = %d", order.SubtotalCents, order.DeliveryFeeCents, order.TotalCents)
	}
	if order.Status != enums.OrderStatusInPreparation || order.PaymentStatus != enums.PaymentStatusDueOnHandover {
		t.Fatalf("unexpected lifecycle %s/%s", order.Status, order.PaymentStatus)
	}
	if len(order.TrackingCode) != 32 {
		t.Fatalf("expected hyphenless uuid tracking code, got %q", order.TrackingCode)
	}
	if order.DeliveryZoneID == nil || *order.DeliveryZoneID != zoneID {
		t.Fatalf("expected zone id carried over")
	}
	if order.DeliveryLat == nil || *order.DeliveryLat != 19.4 {
		t.Fatalf("expected delivery coordinates")
	}
	if len(order.Lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(order.Lines))
	}

	first := order.Lines[0]
	if first.OrderID != order.ID || first.Position != 0 || first.Note == nil || *first.Note != "bien dorado" {
		t.Fatalf("unexpected first line %+v", first)
	}
	if len(first.Modifiers) != 3 {
		t.Fatalf("expected extra, inclusion and removal modifiers, got %d", len(first.Modifiers))
	}
	kinds := []enums.ModifierKind{enums.ModifierKindExtra, enums.ModifierKindInclusion, enums.ModifierKindRemoval}
	for i, mod := range first.Modifiers {
		if mod.Kind != kinds[i] || mod.OrderLineID != first.ID || mod.ID == uuid.Nil {
			t.Fatalf("unexpected modifier %d: %+v", i, mod)
		}
	}
	if first.Modifiers[0].UnitPriceCents != 150 || first.Modifiers[0].Quantity != 2 {
		t.Fatalf("extra should keep catalog price and quantity, got %+v", first.Modifiers[0])
	}
	if ids := draft.LineIDs(); len(ids) != 2 || ids[1] != order.Lines[1].ID {
		t.Fatalf("unexpected line ids %v", ids)
	}
}

func TestNewDraftRejectsInconsistentLines(t *testing.T) {
	in := sampleDraftInput()
	in.Lines[0].SubtotalCents++
	if _, err := NewDraft(in); !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestNewDraftRequiresLinesAndNumber(t *testing.T) {
	in := sampleDraftInput()
	in.Lines = nil
	if _, err := NewDraft(in); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	in = sampleDraftInput()
	in.OrderNumber = 0
	if _, err := NewDraft(in); err == nil {
		t.Fatalf("expected error without order number")
	}
}

func TestTrackingCodesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewTrackingCode()
		if seen[code] {
			t.Fatalf("duplicate tracking code %s", code)
		}
		seen[code] = true
	}
}

func sampleDraftInput() DraftInput {
	tacos := catalog.Item{ID: uuid.New(), Name: "Tacos", BasePriceCents: 1000, Category: "food", Station: "grill", AvailableOnline: true}
	water := catalog.Item{ID: uuid.New(), Name: "Agua", BasePriceCents: 500, Category: "drinks", Station: "bar", AvailableOnline: true}

	return DraftInput{
		BranchID:      uuid.New(),
		OrderNumber:   42,
		Channel:       "web",
		ServiceType:   enums.ServiceTypeDelivery,
		PaymentMethod: enums.PaymentMethodCash,
		Lifecycle:     lifecycle.Decision{Status: enums.OrderStatusInPreparation, PaymentStatus: enums.PaymentStatusDueOnHandover},
		Customer:      Customer{Name: " Ana ", Phone: "5550001"},
		Lines: []pricing.ResolvedLine{
			{
				Line: pricing.Line{
					ItemID:     tacos.ID,
					Note:       " bien dorado ",
					Inclusions: []string{"salsa verde"},
					Removals:   []string{"cebolla", " "},
				},
				Item:           tacos,
				Quantity:       2,
				UnitPriceCents: 1000,
				Extras:         []pricing.PricedExtra{{Name: "Queso", Quantity: 2, UnitPriceCents: 150}},
				ExtrasCents:    300,
				SubtotalCents:  2600,
			},
			{
				Line:           pricing.Line{ItemID: water.ID},
				Item:           water,
				Quantity:       1,
				UnitPriceCents: 500,
				SubtotalCents:  500,
			},
		},
		EstimatedMinutes: 45,
	}
}
