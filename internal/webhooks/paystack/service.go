package paystackwebhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/westwooddairy/storefront-backend/internal/orders"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
	"github.com/westwooddairy/storefront-backend/pkg/metrics"
)

const (
	eventChargeSuccess = "charge.success"
	eventChargeFailed  = "charge.failed"

	// GuardScope namespaces idempotency keys for this webhook.
	GuardScope = "paystack-webhook"
)

// Result is the acknowledgement body returned to the gateway.
type Result struct {
	Received  bool  `json:"received"`
	Ignored   bool  `json:"ignored,omitempty"`
	Duplicate bool  `json:"duplicate,omitempty"`
	Persisted *bool `json:"persisted,omitempty"`
}

// Service applies verified gateway events to order bookkeeping.
type Service struct {
	store   orders.Store
	guard   *IdempotencyGuard
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// ServiceParams collects the webhook service dependencies. Store and Guard
// are optional: without a store events are acknowledged but not persisted,
// and without a guard duplicate deliveries are re-applied.
type ServiceParams struct {
	Store   orders.Store
	Guard   *IdempotencyGuard
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		store:   params.Store,
		guard:   params.Guard,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

type eventEnvelope struct {
	Event string `json:"event"`
	Data  *struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// Process handles one signature-verified webhook delivery. The raw body is
// kept as-is so the full gateway payload can be attached to the order row.
func (s *Service) Process(ctx context.Context, rawBody []byte) (*Result, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(rawBody, &envelope); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid webhook payload")
	}
	if envelope.Data == nil || envelope.Data.Reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "webhook payload missing reference")
	}

	reference := envelope.Data.Reference
	ctx = s.logg.WithReference(ctx, reference)

	var status orders.Status
	switch envelope.Event {
	case eventChargeSuccess:
		status = orders.StatusSuccess
	case eventChargeFailed:
		status = orders.StatusFailed
	default:
		s.metrics.IncWebhookEvent(envelope.Event, "ignored")
		return &Result{Received: true, Ignored: true}, nil
	}

	if s.store == nil {
		s.logg.Warn(ctx, "order store not configured, webhook not persisted")
		s.metrics.IncWebhookEvent(envelope.Event, "skipped")
		return &Result{Received: true, Persisted: boolPtr(false)}, nil
	}
	if !s.store.CanUpdateStatuses() {
		s.logg.Warn(ctx, "order store lacks update credentials, webhook not persisted")
		s.metrics.IncWebhookEvent(envelope.Event, "skipped")
		return &Result{Received: true, Persisted: boolPtr(false)}, nil
	}

	eventID := envelope.Event + ":" + reference
	if s.guard != nil {
		duplicate, err := s.guard.CheckAndMark(ctx, eventID)
		if err != nil {
			s.logg.Error(ctx, "webhook idempotency check failed", err)
		} else if duplicate {
			s.metrics.IncWebhookEvent(envelope.Event, "duplicate")
			return &Result{Received: true, Duplicate: true}, nil
		}
	}

	if err := s.store.UpdatePaymentStatus(ctx, reference, status, json.RawMessage(rawBody)); err != nil {
		if s.guard != nil {
			if delErr := s.guard.Delete(ctx, eventID); delErr != nil {
				s.logg.Error(ctx, "releasing idempotency key failed", delErr)
			}
		}
		s.metrics.IncWebhookEvent(envelope.Event, "error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to persist webhook")
	}

	s.metrics.IncWebhookEvent(envelope.Event, "persisted")
	return &Result{Received: true}, nil
}

func boolPtr(v bool) *bool {
	return &v
}
