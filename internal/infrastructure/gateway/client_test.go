package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

func TestClient_Initialize(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.example.com/abc123",
				"access_code":       "abc123",
				"reference":         "DV-PAY-1-42",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Secret: "sk_test_xyz"})
	session, err := client.Initialize(context.Background(), ports.GatewayInitializeRequest{
		Email:       "cust@example.com",
		AmountMinor: 50000,
		Reference:   "DV-PAY-1-42",
		CallbackURL: "https://app.example.com/return",
		Metadata:    map[string]string{"booking_id": "bk1"},
	})
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	if session.AuthorizationURL != "https://checkout.example.com/abc123" {
		t.Fatalf("authorization URL altered: %s", session.AuthorizationURL)
	}
	if gotAuth != "Bearer sk_test_xyz" {
		t.Fatalf("expected bearer secret header, got %q", gotAuth)
	}
	if gotBody["amount"] != float64(50000) {
		t.Fatalf("expected minor-unit amount 50000, got %v", gotBody["amount"])
	}
	if gotBody["callback_url"] != "https://app.example.com/return" {
		t.Fatalf("callback_url not forwarded: %v", gotBody["callback_url"])
	}
}

func TestClient_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/DV-PAY-1-42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"status":    "success",
				"amount":    50000,
				"currency":  "NGN",
				"channel":   "card",
				"paid_at":   "2024-05-01T10:30:00Z",
				"reference": "DV-PAY-1-42",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Secret: "sk"})
	tx, err := client.Verify(context.Background(), "DV-PAY-1-42")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if tx.Status != "success" || tx.AmountMinor != 50000 || tx.Currency != "NGN" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if tx.PaidAt == nil || tx.PaidAt.Hour() != 10 {
		t.Fatalf("paid_at not parsed: %v", tx.PaidAt)
	}
}

func TestClient_RejectedEnvelopeCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Secret: "bad"})
	_, err := client.Verify(context.Background(), "ref")
	var ge *domain.GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if ge.Message != "Invalid key" {
		t.Fatalf("expected gateway message to survive, got %q", ge.Message)
	}
}

func TestClient_StatusFalseOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Transaction not found",
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Secret: "sk"})
	_, err := client.Verify(context.Background(), "missing")
	var ge *domain.GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if ge.Message != "Transaction not found" {
		t.Fatalf("unexpected message: %q", ge.Message)
	}
}

func TestClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway down</html>"))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Secret: "sk"})
	_, err := client.Verify(context.Background(), "ref")
	if !domain.IsGatewayError(err) {
		t.Fatalf("expected GatewayError for malformed body, got %v", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Secret: "sk"})
	_, err := client.Verify(context.Background(), "ref")
	var ge *domain.GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if ge.Unwrap() == nil {
		t.Fatal("expected transport error to be wrapped")
	}
}
