package lifecycle

import (
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
)

// Decision is the initial status pair of a new order.
type Decision struct {
	Status        enums.OrderStatus
	PaymentStatus enums.PaymentStatus
}

// Classify derives the initial lifecycle from the payment method and the branch
// auto-accept flag. Online orders wait for the gateway; in-person payments are
// settled on handover.
func Classify(method enums.PaymentMethod, autoAccept bool) (Decision, error) {
	switch method {
	case enums.PaymentMethodOnline:
		return Decision{Status: enums.OrderStatusAwaitingPayment, PaymentStatus: enums.PaymentStatusPending}, nil
	case enums.PaymentMethodCash, enums.PaymentMethodCardInPerson:
		status := enums.OrderStatusPendingConfirmation
		if autoAccept {
			status = enums.OrderStatusInPreparation
		}
		return Decision{Status: status, PaymentStatus: enums.PaymentStatusDueOnHandover}, nil
	default:
		return Decision{}, pkgerrors.New(pkgerrors.CodeInvalidPaymentMethod, "payment method not supported").
			WithDetails(map[string]any{"payment_method": string(method)})
	}
}
