// Package pricing turns requested lines into server-priced lines. It never reads
// client-claimed prices: every amount comes from the resolved catalog.
package pricing

import (
	"strings"
	"time"

	"github.com/angelmondragon/ordering-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/google/uuid"
)

// RequestedExtra is an add-on asked for by the client.
type RequestedExtra struct {
	Name     string
	Quantity int
}

// Line is one requested cart line.
type Line struct {
	ItemID          uuid.UUID
	PromotionLineID *uuid.UUID
	NoPromotion     bool
	Quantity        int
	Extras          []RequestedExtra
	Inclusions      []string
	Removals        []string
	Note            string
}

// PricedExtra is an add-on priced from the catalog.
type PricedExtra struct {
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// ResolvedLine is a requested line with authoritative prices.
type ResolvedLine struct {
	Line
	Item            catalog.Item
	PromotionLineID *uuid.UUID
	Quantity        int
	UnitPriceCents  int64
	Extras          []PricedExtra
	ExtrasCents     int64
	SubtotalCents   int64
}

// Moment identifies when and where a price is evaluated.
type Moment struct {
	Channel string
	At      time.Time
}

// PriceLine resolves the unit price, extras and subtotal of one line.
func PriceLine(line Line, cat *catalog.Catalog, at Moment) (ResolvedLine, error) {
	if cat == nil {
		return ResolvedLine{}, pkgerrors.New(pkgerrors.CodeInternal, "catalog not resolved")
	}
	item, ok := cat.Items[line.ItemID]
	if !ok {
		return ResolvedLine{}, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found").
			WithDetails(map[string]any{"item_id": line.ItemID.String()})
	}

	unit, promotionLineID, err := unitPrice(line, item, cat, at)
	if err != nil {
		return ResolvedLine{}, err
	}

	extras, extrasCents, err := priceExtras(line, item)
	if err != nil {
		return ResolvedLine{}, err
	}

	qty := clamp(line.Quantity)
	subtotal := (unit + extrasCents) * int64(qty)
	if subtotal < 0 {
		subtotal = 0
	}

	return ResolvedLine{
		Line:            line,
		Item:            item,
		PromotionLineID: promotionLineID,
		Quantity:        qty,
		UnitPriceCents:  unit,
		Extras:          extras,
		ExtrasCents:     extrasCents,
		SubtotalCents:   subtotal,
	}, nil
}

// PriceOrder prices every line and returns the order subtotal.
func PriceOrder(lines []Line, cat *catalog.Catalog, at Moment) ([]ResolvedLine, int64, error) {
	resolved := make([]ResolvedLine, 0, len(lines))
	var subtotal int64
	for i, line := range lines {
		priced, err := PriceLine(line, cat, at)
		if err != nil {
			return nil, 0, withLineIndex(err, i)
		}
		resolved = append(resolved, priced)
		subtotal += priced.SubtotalCents
	}
	return resolved, subtotal, nil
}

// unitPrice applies the precedence: an explicit promotion line competes with the
// cheapest other eligible promotion, an opt-out uses the base price, otherwise the
// cheapest eligible promotion wins over the base price.
func unitPrice(line Line, item catalog.Item, cat *catalog.Catalog, at Moment) (int64, *uuid.UUID, error) {
	if line.PromotionLineID != nil {
		if line.NoPromotion {
			return 0, nil, pkgerrors.New(pkgerrors.CodeValidation, "a line cannot reference a promotion and opt out of promotions").
				WithDetails(map[string]any{"item_id": item.ID.String()})
		}
		explicit, ok := cat.Promotions[*line.PromotionLineID]
		if !ok {
			return 0, nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion line not found").
				WithDetails(map[string]any{"promotion_line_id": line.PromotionLineID.String()})
		}
		if explicit.ItemID != item.ID {
			return 0, nil, pkgerrors.New(pkgerrors.CodeInvalidPromotion, "promotion line does not belong to the item").
				WithDetails(map[string]any{
					"item_id":           item.ID.String(),
					"promotion_line_id": explicit.ID.String(),
				})
		}
	}
	if line.NoPromotion {
		return item.BasePriceCents, nil, nil
	}

	// Eligible promotions come back cheapest first, so the explicit line only wins
	// when it is eligible and no other line undercuts it.
	eligible := cat.EligiblePromotions(item.ID, at.Channel, at.At)
	if len(eligible) == 0 {
		return item.BasePriceCents, nil, nil
	}
	best := eligible[0]
	if line.PromotionLineID != nil {
		for _, promo := range eligible {
			if promo.ID == *line.PromotionLineID && promo.PriceCents == best.PriceCents {
				best = promo
				break
			}
		}
	}
	id := best.ID
	return best.PriceCents, &id, nil
}

func priceExtras(line Line, item catalog.Item) ([]PricedExtra, int64, error) {
	if len(line.Extras) == 0 {
		return nil, 0, nil
	}
	priced := make([]PricedExtra, 0, len(line.Extras))
	var total int64
	for _, requested := range line.Extras {
		name := strings.TrimSpace(requested.Name)
		extra, ok := item.Extra(name)
		if !ok {
			return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "extra not offered for item").
				WithDetails(map[string]any{"item_id": item.ID.String(), "extra": name})
		}
		qty := clamp(requested.Quantity)
		priced = append(priced, PricedExtra{Name: extra.Name, Quantity: qty, UnitPriceCents: extra.PriceCents})
		total += extra.PriceCents * int64(qty)
	}
	return priced, total, nil
}

func clamp(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}

func withLineIndex(err error, index int) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err
	}
	details := map[string]any{}
	if existing, ok := typed.Details().(map[string]any); ok {
		for k, v := range existing {
			details[k] = v
		}
	}
	details["line"] = index
	return typed.WithDetails(details)
}
