package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/westwooddairy/storefront-backend/api/responses"
	"github.com/westwooddairy/storefront-backend/api/validators"
	"github.com/westwooddairy/storefront-backend/internal/payments"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
)

type initializeRequest struct {
	Email    string          `json:"email" validate:"required"`
	Amount   decimal.Decimal `json:"amountKsh"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// PaymentInitialize starts a hosted-checkout transaction and returns the
// authorization URL the storefront redirects to.
func PaymentInitialize(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		var payload initializeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Initialize(r.Context(), payments.InitializeInput{
			Email:     payload.Email,
			AmountKsh: payload.Amount,
			Metadata:  payload.Metadata,
			Callback: payments.CallbackSource{
				ForwardedProto: r.Header.Get("X-Forwarded-Proto"),
				ForwardedHost:  r.Header.Get("X-Forwarded-Host"),
				Host:           r.Host,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PaymentVerify re-checks a transaction's status with the gateway.
func PaymentVerify(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		reference := verifyReference(r)
		if reference == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "transaction reference required"))
			return
		}

		data, err := svc.Verify(r.Context(), reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, data)
	}
}

// verifyReference resolves the transaction reference from the path or from
// the callback query string, where the gateway may still send the legacy
// trxref parameter.
func verifyReference(r *http.Request) string {
	if ref := chi.URLParam(r, "reference"); ref != "" {
		return ref
	}
	if ref := r.URL.Query().Get("reference"); ref != "" {
		return ref
	}
	return r.URL.Query().Get("trxref")
}
