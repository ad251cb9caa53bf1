package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHasCode(t *testing.T) {
	notFound := New(CodeNotFound, "business details not found")

	if !HasCode(notFound, CodeNotFound) {
		t.Fatal("expected HasCode to match the error's own code")
	}
	if HasCode(notFound, CodeConflict) {
		t.Fatal("expected HasCode to reject a different code")
	}
	if HasCode(nil, CodeNotFound) {
		t.Fatal("expected HasCode to reject nil")
	}

	// The outermost domain code wins through wrap chains.
	wrapped := Wrap(notFound, CodeInternal, "loading details")
	if !HasCode(wrapped, CodeInternal) {
		t.Fatal("expected the outer code to match")
	}
	if err := fmt.Errorf("handler: %w", wrapped); !HasCode(err, CodeInternal) {
		t.Fatal("expected HasCode to unwrap plain fmt wrapping")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "redis unreachable")

	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to survive wrapping")
	}
	if CodeOf(err) != CodeUnavailable {
		t.Fatalf("expected code %q, got %q", CodeUnavailable, CodeOf(err))
	}
	if MessageOf(err) != "redis unreachable" {
		t.Fatalf("unexpected message %q", MessageOf(err))
	}
}

func TestCodeOfNonDomainError(t *testing.T) {
	if CodeOf(errors.New("boom")) != CodeInternal {
		t.Fatal("expected non-domain errors to collapse to internal")
	}
	if MessageOf(errors.New("boom")) != "internal error" {
		t.Fatal("expected non-domain errors to yield a generic message")
	}
}

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeTimeout, http.StatusGatewayTimeout},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := ToHTTPStatus(tc.code); got != tc.want {
			t.Fatalf("code %q: expected status %d, got %d", tc.code, tc.want, got)
		}
	}
}
