package checkout

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/westwooddairy/storefront-backend/internal/cart"
	"github.com/westwooddairy/storefront-backend/internal/orders"
	"github.com/westwooddairy/storefront-backend/internal/products"
)

// Line is one priced cart row. Line totals are rounded to whole shillings.
type Line struct {
	Slug         string          `json:"slug"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"category_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPriceKsh decimal.Decimal `json:"unit_price_ksh"`
	LineTotalKsh decimal.Decimal `json:"line_total_ksh"`
}

// Summary is the priced view of a cart, ready for payment initialization.
type Summary struct {
	Lines         []Line          `json:"lines"`
	TotalKsh      decimal.Decimal `json:"total_ksh"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// MetadataItems converts the summary lines into the gateway metadata shape.
func (s *Summary) MetadataItems() []orders.CheckoutItem {
	items := make([]orders.CheckoutItem, 0, len(s.Lines))
	for _, line := range s.Lines {
		items = append(items, orders.CheckoutItem{
			Slug:         line.Slug,
			Name:         line.Name,
			Quantity:     line.Quantity.InexactFloat64(),
			LineTotalKsh: line.LineTotalKsh.InexactFloat64(),
		})
	}
	return items
}

// Service prices carts against the live catalog.
type Service interface {
	Summary(ctx context.Context, items cart.Items) (*Summary, error)
}

type service struct {
	catalog products.Service
}

// NewService builds a checkout pricing service.
func NewService(catalog products.Service) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{catalog: catalog}, nil
}

// Summary prices each cart line against the catalog. Slugs that no longer
// exist in the catalog are dropped rather than failing the whole cart.
func (s *service) Summary(ctx context.Context, items cart.Items) (*Summary, error) {
	slugs := make([]string, 0, len(items))
	for slug := range items {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	lookup, err := s.catalog.PriceLookup(ctx, slugs)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalKsh: decimal.Zero, TotalQuantity: decimal.Zero}
	for _, slug := range slugs {
		product, ok := lookup[slug]
		if !ok {
			continue
		}
		quantity := items[slug]
		if quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		lineTotal := product.PriceKsh.Mul(quantity).Round(0)
		summary.Lines = append(summary.Lines, Line{
			Slug:         slug,
			Name:         product.Name,
			CategoryID:   product.CategoryID,
			Quantity:     quantity,
			UnitPriceKsh: product.PriceKsh,
			LineTotalKsh: lineTotal,
		})
		summary.TotalKsh = summary.TotalKsh.Add(lineTotal)
		summary.TotalQuantity = summary.TotalQuantity.Add(quantity)
	}

	sort.Slice(summary.Lines, func(i, j int) bool {
		return summary.Lines[i].Name < summary.Lines[j].Name
	})
	return summary, nil
}
