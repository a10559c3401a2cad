package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/ordering-backend/api/middleware"
	"github.com/angelmondragon/ordering-backend/internal/catalog"
	"github.com/angelmondragon/ordering-backend/internal/intake"
	internalorders "github.com/angelmondragon/ordering-backend/internal/orders"
	"github.com/angelmondragon/ordering-backend/internal/pricing"
	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	"github.com/angelmondragon/ordering-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/angelmondragon/ordering-backend/pkg/types"
)

type stubIntake struct {
	got    *intake.Request
	result *intake.Result
	err    error
}

func (s *stubIntake) Submit(_ context.Context, req intake.Request) (*intake.Result, error) {
	s.got = &req
	return s.result, s.err
}

type stubTracker struct {
	code string
	view *internalorders.TrackingView
	err  error
}

func (s *stubTracker) Track(_ context.Context, code string) (*internalorders.TrackingView, error) {
	s.code = code
	return s.view, s.err
}

var (
	branchID = uuid.MustParse("0b6f3b1e-8c55-4a8e-9f45-1a2b3c4d5e6f")
	itemID   = uuid.MustParse("6a1f0c2d-3e4b-4c5d-8e6f-7a8b9c0d1e2f")
	promoID  = uuid.MustParse("9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a")
	zoneID   = uuid.MustParse("1c2d3e4f-5a6b-4c7d-8e9f-0a1b2c3d4e5f")
)

func validBody() string {
	return `{
		"branch_id": "` + branchID.String() + `",
		"service_type": "delivery",
		"payment_method": "cash",
		"customer": {"name": "  Ana  ", "phone": "(55) 1234-5678", "email": "Ana@Example.com"},
		"delivery": {"address": "Av. Reforma 10", "lat": 19.43, "lng": -99.13, "zone_id": "` + zoneID.String() + `", "estimate_cents": 3000},
		"lines": [{
			"item_id": "` + itemID.String() + `",
			"promotion_line_id": "` + promoID.String() + `",
			"quantity": 2,
			"extras": [{"name": "Queso", "quantity": 1}],
			"inclusions": ["salsa verde"],
			"removals": ["onion"],
			"note": "well done"
		}],
		"notes": "ring twice"
	}`
}

func TestCreateMapsPayloadAndReturns201(t *testing.T) {
	orderID := uuid.New()
	svc := &stubIntake{result: &intake.Result{
		OrderID:          orderID,
		TrackingCode:     "abc123",
		OrderNumber:      7,
		Status:           enums.OrderStatusPendingConfirmation,
		EstimatedMinutes: 45,
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/orders", strings.NewReader(validBody()))
	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data intake.Result `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != orderID || envelope.Data.OrderNumber != 7 || envelope.Data.TrackingCode != "abc123" {
		t.Fatalf("unexpected response %+v", envelope.Data)
	}

	got := svc.got
	if got == nil {
		t.Fatalf("expected intake to be called")
	}
	if got.BranchID != branchID || got.ServiceType != "delivery" || got.PaymentMethod != "cash" {
		t.Fatalf("unexpected header fields %+v", got)
	}
	if got.Customer.Name != "Ana" || got.Customer.Phone != "5512345678" || got.Customer.Email != "ana@example.com" {
		t.Fatalf("unexpected customer %+v", got.Customer)
	}
	if got.CustomerID != nil {
		t.Fatalf("guest request should not carry a customer id")
	}
	if got.Delivery == nil || got.Delivery.ZoneID == nil || *got.Delivery.ZoneID != zoneID || *got.Delivery.EstimateCents != 3000 {
		t.Fatalf("unexpected delivery %+v", got.Delivery)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(got.Lines))
	}
	line := got.Lines[0]
	if line.ItemID != itemID || line.PromotionLineID == nil || *line.PromotionLineID != promoID || line.Quantity != 2 {
		t.Fatalf("unexpected line %+v", line)
	}
	if len(line.Extras) != 1 || line.Extras[0].Name != "Queso" || line.Removals[0] != "onion" {
		t.Fatalf("unexpected modifiers %+v", line)
	}
}

func TestCreateAcceptsClaimedExtraPriceWithoutQuantity(t *testing.T) {
	svc := &stubIntake{result: &intake.Result{OrderID: uuid.New()}}
	body := `{"branch_id":"` + branchID.String() + `","service_type":"pickup","payment_method":"cash",
		"customer":{"name":"Ana","phone":"5550001"},
		"lines":[{"item_id":"` + itemID.String() + `","quantity":1,"extras":[{"name":"Queso","price":1},{"name":"Chile","quantity":0,"price":99999}]}]}`

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	line := svc.got.Lines[0]
	if len(line.Extras) != 2 {
		t.Fatalf("expected two extras, got %+v", line.Extras)
	}

	cat := catalog.NewCatalog([]models.CatalogItem{{
		ID:             itemID,
		Name:           "Tacos",
		BasePriceCents: 1000,
		Extras: []models.CatalogItemExtra{
			{Name: "Queso", PriceCents: 150},
			{Name: "Chile", PriceCents: 50},
		},
	}}, nil)
	priced, err := pricing.PriceLine(line, cat, pricing.Moment{Channel: "web", At: time.Now()})
	if err != nil {
		t.Fatalf("price line: %v", err)
	}
	for _, extra := range priced.Extras {
		if extra.Quantity != 1 {
			t.Fatalf("expected extra quantity clamped to 1, got %+v", extra)
		}
	}
	if priced.ExtrasCents != 200 {
		t.Fatalf("expected catalog extra prices only, got %d", priced.ExtrasCents)
	}
}

func TestCreatePassesAuthenticatedCustomer(t *testing.T) {
	customerID := uuid.New()
	svc := &stubIntake{result: &intake.Result{OrderID: uuid.New()}}

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/orders", strings.NewReader(validBody()))
	req = req.WithContext(middleware.WithCustomerID(req.Context(), customerID))
	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.got.CustomerID == nil || *svc.got.CustomerID != customerID {
		t.Fatalf("expected customer id forwarded, got %v", svc.got.CustomerID)
	}
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	cases := map[string]string{
		"not json":         `{`,
		"unknown field":    `{"branch_id":"` + branchID.String() + `","service_type":"pickup","payment_method":"cash","lines":[{"item_id":"` + itemID.String() + `","quantity":1}],"total_cents":1}`,
		"bad branch":       `{"branch_id":"nope","service_type":"pickup","payment_method":"cash","lines":[{"item_id":"` + itemID.String() + `","quantity":1}]}`,
		"no lines":         `{"branch_id":"` + branchID.String() + `","service_type":"pickup","payment_method":"cash","lines":[]}`,
		"zero quantity":    `{"branch_id":"` + branchID.String() + `","service_type":"pickup","payment_method":"cash","lines":[{"item_id":"` + itemID.String() + `","quantity":0}]}`,
		"latitude invalid": `{"branch_id":"` + branchID.String() + `","service_type":"delivery","payment_method":"cash","delivery":{"address":"x","lat":120,"lng":1},"lines":[{"item_id":"` + itemID.String() + `","quantity":1}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubIntake{}
			req := httptest.NewRequest(http.MethodPost, "/api/public/v1/orders", strings.NewReader(body))
			resp := httptest.NewRecorder()
			Create(svc, nil).ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
			}
			if svc.got != nil {
				t.Fatalf("intake should not be called")
			}
		})
	}
}

func TestCreateRendersIntakeErrors(t *testing.T) {
	svc := &stubIntake{err: pkgerrors.New(pkgerrors.CodeBelowMinimum, "order is below the delivery minimum").
		WithDetails(map[string]any{"minimum_cents": int64(5000)})}

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/orders", strings.NewReader(validBody()))
	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeBelowMinimum) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	details, ok := envelope.Error.Details.(map[string]any)
	if !ok || details["minimum_cents"] != float64(5000) {
		t.Fatalf("expected minimum in details, got %+v", envelope.Error.Details)
	}
}

func TestCreateRendersStorageFailureAs500(t *testing.T) {
	svc := &stubIntake{err: pkgerrors.Upstream("sequence", errors.New("connection refused"))}

	req := httptest.NewRequest(http.MethodPost, "/api/public/v1/orders", strings.NewReader(validBody()))
	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStorage) || !envelope.Error.Retryable {
		t.Fatalf("expected retryable storage error, got %+v", envelope.Error)
	}
	if strings.Contains(envelope.Error.Message, "connection refused") {
		t.Fatalf("internal cause leaked: %s", envelope.Error.Message)
	}
}

func TestTrackUsesURLParam(t *testing.T) {
	tracker := &stubTracker{view: &internalorders.TrackingView{OrderNumber: 12, Status: enums.OrderStatusInPreparation}}

	router := chi.NewRouter()
	router.Get("/track/{trackingCode}", Track(tracker, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/track/abc123", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if tracker.code != "abc123" {
		t.Fatalf("expected tracking code forwarded, got %q", tracker.code)
	}
	if !strings.Contains(resp.Body.String(), `"order_number":12`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestTrackNotFound(t *testing.T) {
	tracker := &stubTracker{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}

	router := chi.NewRouter()
	router.Get("/track/{trackingCode}", Track(tracker, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/track/missing", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
