package controllers

import (
	"net/http"

	"github.com/westwooddairy/storefront-backend/api/responses"
	cartsvc "github.com/westwooddairy/storefront-backend/internal/cart"
	checkoutsvc "github.com/westwooddairy/storefront-backend/internal/checkout"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
)

// CheckoutSummary prices the current cart against the live catalog.
func CheckoutSummary(cartSvc cartsvc.Service, checkoutSvc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cartSvc == nil || checkoutSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		items, err := cartSvc.Items(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := checkoutSvc.Summary(r.Context(), items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
