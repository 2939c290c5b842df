package products

import (
	"context"

	"github.com/westwooddairy/storefront-backend/pkg/db/models"
)

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	ListCategories(ctx context.Context) ([]models.ProductCategory, error)
	ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Product, error)
}

// ProductFilters narrows catalog listings. Limit, when positive, caps how
// many products each category section carries.
type ProductFilters struct {
	CategoryID string
	Search     string
	Limit      int
}
