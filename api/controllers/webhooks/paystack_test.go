package webhooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	paystackwebhook "github.com/westwooddairy/storefront-backend/internal/webhooks/paystack"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/paystack"
)

type stubWebhookService struct {
	processFn func(ctx context.Context, rawBody []byte) (*paystackwebhook.Result, error)
	calls     int
}

func (s *stubWebhookService) Process(ctx context.Context, rawBody []byte) (*paystackwebhook.Result, error) {
	s.calls++
	if s.processFn != nil {
		return s.processFn(ctx, rawBody)
	}
	return &paystackwebhook.Result{Received: true}, nil
}

type stubSigningClient struct {
	secret string
}

func (s *stubSigningClient) SigningSecret() string { return s.secret }

const webhookSecret = "sk_test_secret"

func signedRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", strings.NewReader(body))
	req.Header.Set("X-Paystack-Signature", paystack.Sign([]byte(body), webhookSecret))
	return req
}

func TestPaystackWebhookAcceptsValidSignature(t *testing.T) {
	svc := &stubWebhookService{}
	handler := PaystackWebhook(svc, &stubSigningClient{secret: webhookSecret}, nil)

	w := httptest.NewRecorder()
	handler(w, signedRequest(t, `{"event":"charge.success","data":{"reference":"ww_1"}}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("expected one service call, got %d", svc.calls)
	}

	// Acknowledgement is top-level, not wrapped in the success envelope.
	var ack map[string]any
	if err := json.NewDecoder(w.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack["received"] != true {
		t.Fatalf("unexpected ack %v", ack)
	}
	if _, wrapped := ack["data"]; wrapped {
		t.Fatalf("ack must not be enveloped: %v", ack)
	}
}

func TestPaystackWebhookRejectsMissingSignature(t *testing.T) {
	svc := &stubWebhookService{}
	handler := PaystackWebhook(svc, &stubSigningClient{secret: webhookSecret}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", strings.NewReader(`{}`))
	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if svc.calls != 0 {
		t.Fatal("unsigned payload must never reach the service")
	}
}

func TestPaystackWebhookRejectsTamperedBody(t *testing.T) {
	svc := &stubWebhookService{}
	handler := PaystackWebhook(svc, &stubSigningClient{secret: webhookSecret}, nil)

	body := `{"event":"charge.success","data":{"reference":"ww_1"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack",
		strings.NewReader(strings.Replace(body, "ww_1", "ww_2", 1)))
	req.Header.Set("X-Paystack-Signature", paystack.Sign([]byte(body), webhookSecret))

	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if svc.calls != 0 {
		t.Fatal("tampered payload must never reach the service")
	}
}

func TestPaystackWebhookMapsServiceValidationError(t *testing.T) {
	svc := &stubWebhookService{
		processFn: func(context.Context, []byte) (*paystackwebhook.Result, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing transaction reference")
		},
	}
	handler := PaystackWebhook(svc, &stubSigningClient{secret: webhookSecret}, nil)

	w := httptest.NewRecorder()
	handler(w, signedRequest(t, `{"event":"charge.success"}`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPaystackWebhookRequiresConfiguredSecret(t *testing.T) {
	handler := PaystackWebhook(&stubWebhookService{}, &stubSigningClient{}, nil)

	w := httptest.NewRecorder()
	handler(w, signedRequest(t, `{}`))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
