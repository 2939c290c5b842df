package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/westwooddairy/storefront-backend/internal/payments"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/paystack"
	"github.com/westwooddairy/storefront-backend/pkg/types"
)

type stubPaymentService struct {
	initializeFn func(ctx context.Context, input payments.InitializeInput) (*payments.InitializeResult, error)
	verifyFn     func(ctx context.Context, reference string) (*paystack.VerifyData, error)
}

func (s *stubPaymentService) Initialize(ctx context.Context, input payments.InitializeInput) (*payments.InitializeResult, error) {
	if s.initializeFn != nil {
		return s.initializeFn(ctx, input)
	}
	return &payments.InitializeResult{}, nil
}

func (s *stubPaymentService) Verify(ctx context.Context, reference string) (*paystack.VerifyData, error) {
	if s.verifyFn != nil {
		return s.verifyFn(ctx, reference)
	}
	return &paystack.VerifyData{}, nil
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func TestPaymentInitializeForwardsCallbackHeaders(t *testing.T) {
	var captured payments.InitializeInput
	svc := &stubPaymentService{
		initializeFn: func(_ context.Context, input payments.InitializeInput) (*payments.InitializeResult, error) {
			captured = input
			return &payments.InitializeResult{AuthorizationURL: "https://checkout.paystack.com/abc"}, nil
		},
	}

	body := strings.NewReader(`{"email":"amina@example.com","amountKsh":1720.5,"metadata":{"items":[]}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initialize", body)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Forwarded-Host", "shop.westwooddairy.co.ke")
	w := httptest.NewRecorder()
	PaymentInitialize(svc, nil)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if captured.Email != "amina@example.com" {
		t.Fatalf("unexpected email %q", captured.Email)
	}
	if !captured.AmountKsh.Equal(mustDecimal(t, "1720.5")) {
		t.Fatalf("unexpected amount %s", captured.AmountKsh)
	}
	if captured.Callback.ForwardedProto != "https" || captured.Callback.ForwardedHost != "shop.westwooddairy.co.ke" {
		t.Fatalf("callback headers not forwarded: %+v", captured.Callback)
	}
	if captured.Callback.Host == "" {
		t.Fatal("request host must be forwarded as the callback fallback")
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if data["authorizationUrl"] != "https://checkout.paystack.com/abc" {
		t.Fatalf("unexpected payload %v", data)
	}
}

func TestPaymentInitializeValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"email":`},
		{name: "missing email", body: `{"amountKsh":100}`},
		{name: "unknown field", body: `{"email":"a@b.com","amountKsh":100,"surprise":true}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			svc := &stubPaymentService{
				initializeFn: func(context.Context, payments.InitializeInput) (*payments.InitializeResult, error) {
					called = true
					return &payments.InitializeResult{}, nil
				},
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initialize", strings.NewReader(tc.body))
			PaymentInitialize(svc, nil)(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if called {
				t.Fatal("service must not be invoked for a rejected body")
			}
		})
	}
}

func TestPaymentInitializeMapsUpstreamFailure(t *testing.T) {
	svc := &stubPaymentService{
		initializeFn: func(context.Context, payments.InitializeInput) (*payments.InitializeResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUpstream, "gateway rejected the transaction")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initialize",
		strings.NewReader(`{"email":"amina@example.com","amountKsh":100}`))
	PaymentInitialize(svc, nil)(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestPaymentVerifyRequiresReference(t *testing.T) {
	w := httptest.NewRecorder()
	PaymentVerify(&stubPaymentService{}, nil)(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/verify/", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPaymentVerifyReadsQueryReference(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "reference param", target: "/api/v1/payments/verify?reference=trx_123"},
		{name: "legacy trxref alias", target: "/api/v1/payments/verify?trxref=trx_123"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			svc := &stubPaymentService{
				verifyFn: func(_ context.Context, reference string) (*paystack.VerifyData, error) {
					seen = reference
					return &paystack.VerifyData{Status: "success"}, nil
				},
			}

			w := httptest.NewRecorder()
			PaymentVerify(svc, nil)(w, httptest.NewRequest(http.MethodGet, tc.target, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if seen != "trx_123" {
				t.Fatalf("expected reference trx_123, got %q", seen)
			}
		})
	}
}
