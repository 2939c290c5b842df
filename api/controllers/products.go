package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/westwooddairy/storefront-backend/api/responses"
	"github.com/westwooddairy/storefront-backend/api/validators"
	"github.com/westwooddairy/storefront-backend/internal/products"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/logger"
)

const (
	searchQueryMaxLen  = 120
	maxSectionProducts = 100
)

// ProductCategories lists the catalog categories in display order.
func ProductCategories(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

// ProductCatalog returns the sectioned catalog, optionally narrowed by
// category and a free-text search.
func ProductCatalog(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxSectionProducts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := products.ProductFilters{
			CategoryID: validators.SanitizeString(r.URL.Query().Get("category"), searchQueryMaxLen),
			Search:     validators.SanitizeString(r.URL.Query().Get("q"), searchQueryMaxLen),
			Limit:      limit,
		}

		sections, err := svc.Catalog(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sections)
	}
}

// ProductFetch returns one product by slug.
func ProductFetch(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		slug := chi.URLParam(r, "slug")
		product, err := svc.Product(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
