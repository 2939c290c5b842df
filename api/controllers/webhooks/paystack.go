package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/westwooddairy/storefront-backend/api/responses"
	paystackwebhook "github.com/westwooddairy/storefront-backend/internal/webhooks/paystack"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
	"github.com/westwooddairy/storefront-backend/pkg/paystack"
)

const signatureHeader = "X-Paystack-Signature"

// PaystackWebhookService applies one verified webhook delivery.
type PaystackWebhookService interface {
	Process(ctx context.Context, rawBody []byte) (*paystackwebhook.Result, error)
}

type paystackClient interface {
	SigningSecret() string
}

// PaystackWebhook verifies the HMAC-SHA512 signature over the raw body and
// hands the event to the webhook service. The acknowledgement is written
// without the success envelope because the gateway inspects the top-level
// shape.
func PaystackWebhook(svc PaystackWebhookService, client paystackClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}
		if client == nil || client.SigningSecret() == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook secret not configured"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "signature missing"))
			return
		}
		if !paystack.SignatureValid(payload, client.SigningSecret(), signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "signature mismatch"))
			return
		}

		result, err := svc.Process(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteRaw(w, http.StatusOK, result)
	}
}
