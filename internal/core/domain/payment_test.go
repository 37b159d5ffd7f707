package domain

import "testing"

func TestPaymentStatus_Transitions(t *testing.T) {
	cases := []struct {
		from PaymentStatus
		to   PaymentStatus
		ok   bool
	}{
		{PaymentPending, PaymentSuccess, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentPending, PaymentPending, false},
		{PaymentSuccess, PaymentFailed, false},
		{PaymentSuccess, PaymentPending, false},
		{PaymentFailed, PaymentSuccess, false},
		{PaymentFailed, PaymentPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestPaymentStatus_Terminal(t *testing.T) {
	if PaymentPending.Terminal() {
		t.Fatal("pending must not be terminal")
	}
	if !PaymentSuccess.Terminal() {
		t.Fatal("success must be terminal")
	}
	if !PaymentFailed.Terminal() {
		t.Fatal("failed must be terminal")
	}
}

func TestGatewayError_MessageAndUnwrap(t *testing.T) {
	inner := ErrPaymentNotFound
	err := &GatewayError{Op: "verify", Message: "transaction not found", Err: inner}

	if err.Error() == "" {
		t.Fatal("expected non-empty message")
	}
	if !IsGatewayError(err) {
		t.Fatal("expected IsGatewayError to match")
	}
	if err.Unwrap() != inner {
		t.Fatal("expected Unwrap to return wrapped error")
	}
}
