package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/google/uuid"
)

// Item is the authoritative, request-scoped view of a catalog item.
type Item struct {
	ID              uuid.UUID
	Name            string
	BasePriceCents  int64
	Category        string
	Station         string
	AvailableOnline bool
	extras          map[string]Extra
}

// Extra is a catalog-declared add-on price.
type Extra struct {
	Name       string
	PriceCents int64
}

// Extra looks up an add-on by name, ignoring case and surrounding spaces.
func (i Item) Extra(name string) (Extra, bool) {
	extra, ok := i.extras[extraKey(name)]
	return extra, ok
}

// ActivePromotion is a promotion line: a promotional price for one item under the
// owning promotion's window and channel set.
type ActivePromotion struct {
	ID          uuid.UUID
	PromotionID uuid.UUID
	ItemID      uuid.UUID
	PriceCents  int64
	StartsOn    *time.Time
	EndsOn      *time.Time
	Channels    []string
	Active      bool
}

// EligibleAt reports whether the promotion applies to channel on the calendar day of at.
// Window bounds are inclusive; a nil bound is open.
func (p ActivePromotion) EligibleAt(channel string, at time.Time) bool {
	if !p.Active {
		return false
	}
	if !p.allowsChannel(channel) {
		return false
	}
	today := dayKey(at)
	if p.StartsOn != nil && today < dayKey(*p.StartsOn) {
		return false
	}
	if p.EndsOn != nil && today > dayKey(*p.EndsOn) {
		return false
	}
	return true
}

func (p ActivePromotion) allowsChannel(channel string) bool {
	if len(p.Channels) == 0 {
		return true
	}
	channel = strings.TrimSpace(channel)
	for _, allowed := range p.Channels {
		if strings.EqualFold(strings.TrimSpace(allowed), channel) {
			return true
		}
	}
	return false
}

// Catalog holds the lookups resolved for one request.
type Catalog struct {
	Items      map[uuid.UUID]Item
	Promotions map[uuid.UUID]ActivePromotion
}

// EligiblePromotions returns the promotions for item eligible at the moment, cheapest first.
func (c *Catalog) EligiblePromotions(itemID uuid.UUID, channel string, at time.Time) []ActivePromotion {
	if c == nil {
		return nil
	}
	var eligible []ActivePromotion
	for _, promo := range c.Promotions {
		if promo.ItemID == itemID && promo.EligibleAt(channel, at) {
			eligible = append(eligible, promo)
		}
	}
	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].PriceCents != eligible[j].PriceCents {
			return eligible[i].PriceCents < eligible[j].PriceCents
		}
		return eligible[i].ID.String() < eligible[j].ID.String()
	})
	return eligible
}

// NewItem builds the request-scoped view of a catalog row.
func NewItem(model models.CatalogItem) Item {
	extras := make(map[string]Extra, len(model.Extras))
	for _, extra := range model.Extras {
		extras[extraKey(extra.Name)] = Extra{Name: extra.Name, PriceCents: extra.PriceCents}
	}
	return Item{
		ID:              model.ID,
		Name:            model.Name,
		BasePriceCents:  model.BasePriceCents,
		Category:        model.Category,
		Station:         model.Station,
		AvailableOnline: model.AvailableOnline,
		extras:          extras,
	}
}

// NewActivePromotion flattens a promotion line and its owning promotion.
func NewActivePromotion(line models.PromotionItem) ActivePromotion {
	promo := ActivePromotion{
		ID:          line.ID,
		PromotionID: line.PromotionID,
		ItemID:      line.ItemID,
		PriceCents:  line.PromoPriceCents,
	}
	if line.Promotion != nil {
		promo.StartsOn = line.Promotion.StartsOn
		promo.EndsOn = line.Promotion.EndsOn
		promo.Channels = append([]string(nil), line.Promotion.Channels...)
		promo.Active = line.Promotion.Active
	}
	return promo
}

// NewCatalog indexes items by id and promotions by promotion-line id.
func NewCatalog(items []models.CatalogItem, lines []models.PromotionItem) *Catalog {
	cat := &Catalog{
		Items:      make(map[uuid.UUID]Item, len(items)),
		Promotions: make(map[uuid.UUID]ActivePromotion, len(lines)),
	}
	for _, item := range items {
		cat.Items[item.ID] = NewItem(item)
	}
	for _, line := range lines {
		cat.Promotions[line.ID] = NewActivePromotion(line)
	}
	return cat
}

func extraKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
