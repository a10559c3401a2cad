package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/ordering-backend/pkg/auth"
	"github.com/angelmondragon/ordering-backend/pkg/config"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "ordering"}

func capturingHandler(captured *uuid.UUID, seen *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = true
		if id, ok := CustomerIDFromContext(r.Context()); ok {
			*captured = id
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestOptionalCustomerAllowsGuests(t *testing.T) {
	var captured uuid.UUID
	var seen bool
	handler := OptionalCustomer(testJWT, nil)(capturingHandler(&captured, &seen))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", nil))

	if resp.Code != http.StatusOK || !seen {
		t.Fatalf("expected guest to pass, got %d", resp.Code)
	}
	if captured != uuid.Nil {
		t.Fatalf("expected no customer id, got %s", captured)
	}
}

func TestOptionalCustomerSeedsContext(t *testing.T) {
	customerID := uuid.New()
	token, err := auth.MintCustomerToken(testJWT, time.Now(), time.Hour, customerID)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var captured uuid.UUID
	var seen bool
	handler := OptionalCustomer(testJWT, nil)(capturingHandler(&captured, &seen))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured != customerID {
		t.Fatalf("expected customer %s got %s", customerID, captured)
	}
}

func TestOptionalCustomerRejectsBadCredentials(t *testing.T) {
	expired, err := auth.MintCustomerToken(testJWT, time.Now().Add(-2*time.Hour), time.Hour, uuid.New())
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	cases := map[string]string{
		"malformed header": "Token abc",
		"empty bearer":     "Bearer ",
		"garbage token":    "Bearer invalid",
		"expired token":    "Bearer " + expired,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			var captured uuid.UUID
			var seen bool
			handler := OptionalCustomer(testJWT, nil)(capturingHandler(&captured, &seen))

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set("Authorization", header)
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			if resp.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 got %d", resp.Code)
			}
			if seen {
				t.Fatalf("handler should not run")
			}
		})
	}
}
