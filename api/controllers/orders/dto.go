package orders

import (
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/ordering-backend/api/validators"
	"github.com/angelmondragon/ordering-backend/internal/intake"
	"github.com/angelmondragon/ordering-backend/internal/pricing"
)

const (
	maxNameLength    = 120
	maxNoteLength    = 500
	maxLabelLength   = 80
	maxAddressLength = 300
)

type createOrderRequest struct {
	BranchID      string           `json:"branch_id" validate:"required,uuid"`
	ServiceType   string           `json:"service_type" validate:"required"`
	PaymentMethod string           `json:"payment_method" validate:"required"`
	Customer      customerPayload  `json:"customer"`
	Delivery      *deliveryPayload `json:"delivery,omitempty"`
	Lines         []linePayload    `json:"lines" validate:"required,min=1,max=50,dive"`
	Notes         string           `json:"notes,omitempty" validate:"max=500"`
}

type customerPayload struct {
	Name  string `json:"name" validate:"max=120"`
	Phone string `json:"phone" validate:"max=32"`
	Email string `json:"email" validate:"omitempty,email,max=254"`
}

type deliveryPayload struct {
	Address string   `json:"address" validate:"max=300"`
	Lat     *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng     *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
	ZoneID  *string  `json:"zone_id,omitempty" validate:"omitempty,uuid"`
	// EstimateCents is the surcharge the storefront displayed; it is only a fallback.
	EstimateCents *int64 `json:"estimate_cents,omitempty" validate:"omitempty,gte=0"`
}

type linePayload struct {
	ItemID          string         `json:"item_id" validate:"required,uuid"`
	PromotionLineID *string        `json:"promotion_line_id,omitempty" validate:"omitempty,uuid"`
	NoPromotion     bool           `json:"no_promotion,omitempty"`
	Quantity        int            `json:"quantity" validate:"required,min=1,max=99"`
	Extras          []extraPayload `json:"extras,omitempty" validate:"max=20,dive"`
	Inclusions      []string       `json:"inclusions,omitempty" validate:"max=20,dive,required,max=80"`
	Removals        []string       `json:"removals,omitempty" validate:"max=20,dive,required,max=80"`
	Note            string         `json:"note,omitempty" validate:"max=200"`
}

type extraPayload struct {
	Name string `json:"name" validate:"required,max=80"`
	// Missing or zero counts are clamped to 1 when the line is priced.
	Quantity int `json:"quantity,omitempty" validate:"omitempty,min=0,max=20"`
	// Price is what the storefront displayed. It is accepted and ignored.
	Price *int64 `json:"price,omitempty"`
}

// toRequest maps the decoded payload; ids were already checked by the uuid tags.
func (p createOrderRequest) toRequest(customerID *uuid.UUID) intake.Request {
	req := intake.Request{
		BranchID:      uuid.MustParse(p.BranchID),
		ServiceType:   strings.TrimSpace(p.ServiceType),
		PaymentMethod: strings.TrimSpace(p.PaymentMethod),
		Customer: intake.CustomerInput{
			Name:  validators.SanitizeString(p.Customer.Name, maxNameLength),
			Phone: validators.SanitizePhone(p.Customer.Phone),
			Email: strings.ToLower(strings.TrimSpace(p.Customer.Email)),
		},
		CustomerID: customerID,
		Notes:      validators.SanitizeString(p.Notes, maxNoteLength),
		Lines:      make([]pricing.Line, 0, len(p.Lines)),
	}

	if p.Delivery != nil {
		in := &intake.DeliveryInput{
			Address:       validators.SanitizeString(p.Delivery.Address, maxAddressLength),
			Lat:           p.Delivery.Lat,
			Lng:           p.Delivery.Lng,
			EstimateCents: p.Delivery.EstimateCents,
		}
		if p.Delivery.ZoneID != nil {
			zoneID := uuid.MustParse(*p.Delivery.ZoneID)
			in.ZoneID = &zoneID
		}
		req.Delivery = in
	}

	for _, line := range p.Lines {
		out := pricing.Line{
			ItemID:      uuid.MustParse(line.ItemID),
			NoPromotion: line.NoPromotion,
			Quantity:    line.Quantity,
			Inclusions:  labels(line.Inclusions),
			Removals:    labels(line.Removals),
			Note:        validators.SanitizeString(line.Note, maxNoteLength),
		}
		if line.PromotionLineID != nil {
			promoID := uuid.MustParse(*line.PromotionLineID)
			out.PromotionLineID = &promoID
		}
		for _, extra := range line.Extras {
			out.Extras = append(out.Extras, pricing.RequestedExtra{
				Name:     validators.SanitizeString(extra.Name, maxLabelLength),
				Quantity: extra.Quantity,
			})
		}
		req.Lines = append(req.Lines, out)
	}
	return req
}

func labels(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, validators.SanitizeString(value, maxLabelLength))
	}
	return out
}
