package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/westwooddairy/storefront-backend/api/responses"
	"github.com/westwooddairy/storefront-backend/api/validators"
	cartsvc "github.com/westwooddairy/storefront-backend/internal/cart"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
)

type cartItemRequest struct {
	Slug     string          `json:"slug" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

type cartAdjustRequest struct {
	Slug  string          `json:"slug" validate:"required"`
	Delta decimal.Decimal `json:"delta"`
}

type cartResponse struct {
	Items cartsvc.Items   `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartFetch returns the server-held cart and its quantity total.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		items, err := svc.Items(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: items, Total: items.Total()})
	}
}

// CartSetQuantity writes an absolute quantity for one slug. Quantities at or
// below zero remove the line.
func CartSetQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.SetQuantity(r.Context(), payload.Slug, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: items, Total: items.Total()})
	}
}

// CartAdjust applies a relative quantity delta, the storefront's plus/minus
// buttons.
func CartAdjust(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartAdjustRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Adjust(r.Context(), payload.Slug, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: items, Total: items.Total()})
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Items: cartsvc.Items{}, Total: decimal.Zero})
	}
}
