package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/westwooddairy/storefront-backend/internal/products"
	"github.com/westwooddairy/storefront-backend/pkg/db/models"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
	"github.com/westwooddairy/storefront-backend/pkg/types"
)

type stubProductService struct {
	categoriesFn  func(ctx context.Context) ([]models.ProductCategory, error)
	catalogFn     func(ctx context.Context, filters products.ProductFilters) ([]products.CategorySection, error)
	productFn     func(ctx context.Context, slug string) (*models.Product, error)
	priceLookupFn func(ctx context.Context, slugs []string) (map[string]models.Product, error)
}

func (s *stubProductService) Categories(ctx context.Context) ([]models.ProductCategory, error) {
	if s.categoriesFn != nil {
		return s.categoriesFn(ctx)
	}
	return nil, nil
}

func (s *stubProductService) Catalog(ctx context.Context, filters products.ProductFilters) ([]products.CategorySection, error) {
	if s.catalogFn != nil {
		return s.catalogFn(ctx, filters)
	}
	return nil, nil
}

func (s *stubProductService) Product(ctx context.Context, slug string) (*models.Product, error) {
	if s.productFn != nil {
		return s.productFn(ctx, slug)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubProductService) PriceLookup(ctx context.Context, slugs []string) (map[string]models.Product, error) {
	if s.priceLookupFn != nil {
		return s.priceLookupFn(ctx, slugs)
	}
	return nil, nil
}

func TestProductCatalogForwardsFilters(t *testing.T) {
	var captured products.ProductFilters
	svc := &stubProductService{
		catalogFn: func(_ context.Context, filters products.ProductFilters) ([]products.CategorySection, error) {
			captured = filters
			return []products.CategorySection{}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=yogurt&q=%20mango%20", nil)
	ProductCatalog(svc, nil)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if captured.CategoryID != "yogurt" {
		t.Fatalf("unexpected category filter %q", captured.CategoryID)
	}
	if captured.Search != "mango" {
		t.Fatalf("search filter should be trimmed, got %q", captured.Search)
	}
}

func TestProductCatalogLimitQuery(t *testing.T) {
	var captured products.ProductFilters
	svc := &stubProductService{
		catalogFn: func(_ context.Context, filters products.ProductFilters) ([]products.CategorySection, error) {
			captured = filters
			return []products.CategorySection{}, nil
		},
	}

	w := httptest.NewRecorder()
	ProductCatalog(svc, nil)(w, httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=3", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if captured.Limit != 3 {
		t.Fatalf("expected limit 3, got %d", captured.Limit)
	}
}

func TestProductCatalogLimitValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "non-numeric", target: "/api/v1/products?limit=many"},
		{name: "below range", target: "/api/v1/products?limit=0"},
		{name: "above range", target: "/api/v1/products?limit=101"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			svc := &stubProductService{
				catalogFn: func(context.Context, products.ProductFilters) ([]products.CategorySection, error) {
					called = true
					return nil, nil
				},
			}

			w := httptest.NewRecorder()
			ProductCatalog(svc, nil)(w, httptest.NewRequest(http.MethodGet, tc.target, nil))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if called {
				t.Fatal("catalog must not be queried with an invalid limit")
			}
		})
	}
}

func TestProductFetchNotFound(t *testing.T) {
	svc := &stubProductService{}

	router := chi.NewRouter()
	router.Get("/api/v1/products/{slug}", ProductFetch(svc, nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/retired-flavour", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
}

func TestProductCategoriesGuardsNilService(t *testing.T) {
	w := httptest.NewRecorder()
	ProductCategories(nil, nil)(w, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
