package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/westwooddairy/storefront-backend/internal/orders"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
	"github.com/westwooddairy/storefront-backend/pkg/metrics"
	"github.com/westwooddairy/storefront-backend/pkg/paystack"
)

const (
	providerName        = "paystack"
	callbackPathDefault = "/checkout/callback"
)

// Gateway is the slice of the payment client used by this service.
type Gateway interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeData, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifyData, error)
}

// CallbackSource carries the request headers used to derive the
// hosted-checkout return URL when none is configured.
type CallbackSource struct {
	ForwardedProto string
	ForwardedHost  string
	Host           string
}

// InitializeInput is the validated payload for starting a payment.
type InitializeInput struct {
	Email     string
	AmountKsh decimal.Decimal
	Metadata  json.RawMessage
	Callback  CallbackSource
}

// InitializeResult mirrors the response the storefront redirects on.
type InitializeResult struct {
	AuthorizationURL string  `json:"authorizationUrl"`
	Reference        *string `json:"reference"`
	AccessCode       *string `json:"accessCode"`
	CallbackURL      string  `json:"callbackUrl"`
}

// Service drives payment initialization and verification.
type Service interface {
	Initialize(ctx context.Context, input InitializeInput) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifyData, error)
}

type service struct {
	gateway     Gateway
	store       orders.Store
	logg        *logger.Logger
	metrics     *metrics.StorefrontMetrics
	callbackURL string
}

// NewService builds the payment service. The order store may be nil, in which
// case bookkeeping is skipped. The configured callback URL, when present,
// takes precedence over header-derived URLs.
func NewService(gateway Gateway, store orders.Store, logg *logger.Logger, m *metrics.StorefrontMetrics, callbackURL string) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		gateway:     gateway,
		store:       store,
		logg:        logg,
		metrics:     m,
		callbackURL: strings.TrimSpace(callbackURL),
	}, nil
}

func (s *service) Initialize(ctx context.Context, input InitializeInput) (*InitializeResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		s.metrics.IncPaymentInit("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid customer email is required")
	}
	if input.AmountKsh.LessThanOrEqual(decimal.Zero) {
		s.metrics.IncPaymentInit("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	callbackURL := s.resolveCallbackURL(input.Callback)
	if callbackURL == "" {
		s.metrics.IncPaymentInit("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unable to resolve callback URL")
	}

	amountMinor := input.AmountKsh.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	started := time.Now()
	data, err := s.gateway.Initialize(ctx, paystack.InitializeRequest{
		Email:       email,
		AmountMinor: amountMinor,
		CallbackURL: callbackURL,
		Currency:    paystack.DefaultCurrency,
		Metadata:    rawMetadata(input.Metadata),
	})
	s.metrics.ObserveGatewayDuration("initialize", time.Since(started))
	if err != nil {
		s.metrics.IncPaymentInit("gateway_error")
		return nil, err
	}
	s.metrics.IncPaymentInit("success")

	s.recordPendingOrder(ctx, email, input.AmountKsh, input.Metadata, data.Reference)

	result := &InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		CallbackURL:      callbackURL,
	}
	if data.Reference != "" {
		result.Reference = &data.Reference
	}
	if data.AccessCode != "" {
		result.AccessCode = &data.AccessCode
	}
	return result, nil
}

func (s *service) Verify(ctx context.Context, reference string) (*paystack.VerifyData, error) {
	started := time.Now()
	data, err := s.gateway.Verify(ctx, reference)
	s.metrics.ObserveGatewayDuration("verify", time.Since(started))
	return data, err
}

// recordPendingOrder is best effort. A bookkeeping failure never blocks the
// customer's redirect to the hosted checkout.
func (s *service) recordPendingOrder(ctx context.Context, email string, amountKsh decimal.Decimal, metadata json.RawMessage, reference string) {
	if s.store == nil {
		s.logg.Warn(ctx, "order store not configured, skipping pending order")
		return
	}

	order := orders.Order{
		CustomerEmail:   email,
		TotalKsh:        amountKsh.Round(0).IntPart(),
		Currency:        paystack.DefaultCurrency,
		Items:           extractCheckoutItems(metadata),
		PaymentProvider: providerName,
		PaymentStatus:   orders.StatusPending,
	}
	if reference != "" {
		order.PaystackReference = &reference
	}

	if err := s.store.InsertPending(ctx, order); err != nil {
		s.logg.Error(ctx, "failed to persist pending order", err)
	}
}

func (s *service) resolveCallbackURL(source CallbackSource) string {
	if s.callbackURL != "" {
		return s.callbackURL
	}

	host := strings.TrimSpace(source.ForwardedHost)
	if host == "" {
		host = strings.TrimSpace(source.Host)
	}
	if host == "" {
		return ""
	}

	proto := strings.TrimSpace(source.ForwardedProto)
	if proto == "" {
		proto = "https"
		if strings.Contains(host, "localhost") {
			proto = "http"
		}
	}
	return fmt.Sprintf("%s://%s%s", proto, host, callbackPathDefault)
}

func rawMetadata(metadata json.RawMessage) any {
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}

// extractCheckoutItems pulls the well-formed cart lines out of the metadata
// blob. Anything malformed is dropped silently.
func extractCheckoutItems(metadata json.RawMessage) []orders.CheckoutItem {
	if len(metadata) == 0 {
		return []orders.CheckoutItem{}
	}

	var wrapper struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(metadata, &wrapper); err != nil {
		return []orders.CheckoutItem{}
	}

	items := make([]orders.CheckoutItem, 0, len(wrapper.Items))
	for _, raw := range wrapper.Items {
		var item orders.CheckoutItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.Slug == "" || item.Name == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}
