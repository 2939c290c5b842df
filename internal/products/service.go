package products

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/westwooddairy/storefront-backend/pkg/db/models"
	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
)

// Service exposes catalog reads to the HTTP layer and to pricing.
type Service interface {
	Categories(ctx context.Context) ([]models.ProductCategory, error)
	Catalog(ctx context.Context, filters ProductFilters) ([]CategorySection, error)
	Product(ctx context.Context, slug string) (*models.Product, error)
	PriceLookup(ctx context.Context, slugs []string) (map[string]models.Product, error)
}

// CategorySection is a category together with its (filtered) products,
// matching the storefront's sectioned catalog page.
type CategorySection struct {
	Category models.ProductCategory `json:"category"`
	Products []models.Product       `json:"products"`
}

type service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Categories(ctx context.Context) ([]models.ProductCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) Catalog(ctx context.Context, filters ProductFilters) ([]CategorySection, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListProducts(ctx, filters)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]models.Product, len(categories))
	for _, item := range items {
		grouped[item.CategoryID] = append(grouped[item.CategoryID], item)
	}

	sections := make([]CategorySection, 0, len(categories))
	for _, category := range categories {
		products := grouped[category.ID]
		if len(products) == 0 && (filters.CategoryID != "" || filters.Search != "") {
			// filtered views drop empty sections
			continue
		}
		if filters.Limit > 0 && len(products) > filters.Limit {
			products = products[:filters.Limit]
		}
		sections = append(sections, CategorySection{Category: category, Products: products})
	}
	return sections, nil
}

func (s *service) Product(ctx context.Context, slug string) (*models.Product, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *service) PriceLookup(ctx context.Context, slugs []string) (map[string]models.Product, error) {
	items, err := s.repo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]models.Product, len(items))
	for _, item := range items {
		lookup[item.Slug] = item
	}
	return lookup, nil
}
