package intake

import (
	"strings"

	"github.com/angelmondragon/ordering-backend/internal/catalog"
	"github.com/angelmondragon/ordering-backend/internal/pricing"
	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/google/uuid"
)

// validated is the normalized form of a request that passed the shape checks.
type validated struct {
	serviceType   enums.ServiceType
	paymentMethod enums.PaymentMethod
}

func validateShape(req Request) (validated, error) {
	var out validated

	if req.BranchID == uuid.Nil {
		return out, validationError("branch_id", "branch id is required")
	}
	if len(req.Lines) == 0 {
		return out, validationError("lines", "order requires at least one line")
	}
	for i, line := range req.Lines {
		if line.ItemID == uuid.Nil {
			return out, pkgerrors.New(pkgerrors.CodeValidation, "line item id is required").
				WithDetails(map[string]any{"field": "lines", "line": i})
		}
		if line.Quantity <= 0 {
			return out, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive").
				WithDetails(map[string]any{"field": "lines", "line": i})
		}
	}

	serviceType, err := enums.ParseServiceType(strings.TrimSpace(req.ServiceType))
	if err != nil {
		return out, validationError("service_type", "service type must be pickup or delivery")
	}
	if serviceType == enums.ServiceTypeDineIn {
		return out, pkgerrors.New(pkgerrors.CodeChannelDisabled, "dine-in is not available for online orders").
			WithDetails(map[string]any{"service_type": string(serviceType)})
	}
	if serviceType == enums.ServiceTypeDelivery {
		if req.Delivery == nil || strings.TrimSpace(req.Delivery.Address) == "" {
			return out, validationError("delivery.address", "delivery orders require an address")
		}
		if (req.Delivery.Lat == nil) != (req.Delivery.Lng == nil) {
			return out, validationError("delivery.lat", "latitude and longitude must be sent together")
		}
	}

	method, err := enums.ParsePaymentMethod(strings.TrimSpace(req.PaymentMethod))
	if err != nil {
		return out, pkgerrors.New(pkgerrors.CodeInvalidPaymentMethod, "payment method not supported").
			WithDetails(map[string]any{"payment_method": req.PaymentMethod})
	}

	out.serviceType = serviceType
	out.paymentMethod = method
	return out, nil
}

// checkBranch applies the branch switches for the online channel.
func checkBranch(branch *models.Branch, v validated) error {
	details := map[string]any{"branch_id": branch.ID.String()}
	if !branch.OnlineOrderingEnabled {
		return pkgerrors.New(pkgerrors.CodeChannelDisabled, "branch does not accept online orders").WithDetails(details)
	}
	switch v.serviceType {
	case enums.ServiceTypePickup:
		if !branch.PickupEnabled {
			return pkgerrors.New(pkgerrors.CodeChannelDisabled, "pickup is disabled for this branch").WithDetails(details)
		}
	case enums.ServiceTypeDelivery:
		if !branch.DeliveryEnabled {
			return pkgerrors.New(pkgerrors.CodeChannelDisabled, "delivery is disabled for this branch").WithDetails(details)
		}
	}
	if v.paymentMethod == enums.PaymentMethodOnline && !branch.OnlinePaymentEnabled {
		return pkgerrors.New(pkgerrors.CodeChannelDisabled, "online payment is disabled for this branch").WithDetails(details)
	}
	return nil
}

func checkContact(customer CustomerInput) error {
	if strings.TrimSpace(customer.Name) == "" {
		return validationError("customer.name", "customer name is required")
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return validationError("customer.phone", "customer phone is required")
	}
	return nil
}

// checkPurchasable rejects items hidden from the online channel.
func checkPurchasable(lines []pricing.Line, cat *catalog.Catalog) error {
	var blocked []string
	seen := map[uuid.UUID]bool{}
	for _, line := range lines {
		item, ok := cat.Items[line.ItemID]
		if !ok || item.AvailableOnline || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		blocked = append(blocked, item.ID.String())
	}
	if len(blocked) > 0 {
		return pkgerrors.New(pkgerrors.CodeChannelDisabled, "items not available online").
			WithDetails(map[string]any{"item_ids": blocked})
	}
	return nil
}

func validationError(field, message string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
