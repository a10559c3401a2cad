package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", detailsOK: true},
		{code: CodeChannelDisabled, status: http.StatusBadRequest, publicMsg: "not available through this channel", detailsOK: true},
		{code: CodeBelowMinimum, status: http.StatusBadRequest, publicMsg: "order below minimum amount", detailsOK: true},
		{code: CodeInvalidPaymentMethod, status: http.StatusBadRequest, publicMsg: "invalid payment method", detailsOK: true},
		{code: CodeZoneInactive, status: http.StatusBadRequest, publicMsg: "delivery zone inactive", detailsOK: true},
		{code: CodeUpstreamTimeout, status: http.StatusInternalServerError, publicMsg: "upstream timeout", retryable: true, detailsOK: true},
		{code: CodeWriteFailed, status: http.StatusInternalServerError, publicMsg: "order could not be stored", retryable: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", retryable: true},
		{code: CodeStorage, status: http.StatusInternalServerError, publicMsg: "storage unavailable", retryable: true, detailsOK: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeWriteFailed, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeWriteFailed {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestCodeOfWalksChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeBelowMinimum, "too small"))
	if got := CodeOf(err); got != CodeBelowMinimum {
		t.Fatalf("expected BELOW_MINIMUM, got %s", got)
	}
	if !IsCode(err, CodeBelowMinimum) {
		t.Fatalf("IsCode should match wrapped code")
	}
	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("untyped error should map to internal, got %s", got)
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should be nil")
	}
}

func TestUpstreamClassification(t *testing.T) {
	wrappedDeadline := fmt.Errorf("query catalog: %w", context.DeadlineExceeded)

	timeout := As(Upstream("catalog", wrappedDeadline))
	if timeout == nil || timeout.Code() != CodeUpstreamTimeout {
		t.Fatalf("expected upstream timeout, got %v", timeout)
	}
	details, ok := timeout.Details().(map[string]any)
	if !ok || details["component"] != "catalog" {
		t.Fatalf("expected component detail, got %#v", timeout.Details())
	}

	if code := CodeOf(Upstream("sequence", context.Canceled)); code != CodeCanceled {
		t.Fatalf("expected canceled, got %s", code)
	}

	notFound := New(CodeNotFound, "zone not found")
	if got := Upstream("delivery", notFound); got != notFound {
		t.Fatalf("typed errors should pass through unchanged")
	}

	refused := Upstream("sequence", stdErrors.New("connection refused"))
	if code := CodeOf(refused); code != CodeStorage {
		t.Fatalf("expected storage error, got %s", code)
	}
	if status := MetadataFor(CodeOf(refused)).HTTPStatus; status != http.StatusInternalServerError {
		t.Fatalf("storage failures must surface as 500, got %d", status)
	}

	if Upstream("catalog", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}
}

func TestUpstreamPrefersTimeoutOverTypedDependency(t *testing.T) {
	err := Wrap(CodeDependency, context.DeadlineExceeded, "execute compute routes request")
	if code := CodeOf(Upstream("delivery", err)); code != CodeUpstreamTimeout {
		t.Fatalf("expected timeout classification, got %s", code)
	}
}
