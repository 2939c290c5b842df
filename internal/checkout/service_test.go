package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/westwooddairy/storefront-backend/internal/cart"
	"github.com/westwooddairy/storefront-backend/internal/products"
	"github.com/westwooddairy/storefront-backend/pkg/db/models"
)

type stubCatalog struct {
	prices map[string]models.Product
}

func (s *stubCatalog) Categories(ctx context.Context) ([]models.ProductCategory, error) {
	return nil, nil
}

func (s *stubCatalog) Catalog(ctx context.Context, filters products.ProductFilters) ([]products.CategorySection, error) {
	return nil, nil
}

func (s *stubCatalog) Product(ctx context.Context, slug string) (*models.Product, error) {
	return nil, nil
}

func (s *stubCatalog) PriceLookup(ctx context.Context, slugs []string) (map[string]models.Product, error) {
	matched := make(map[string]models.Product)
	for _, slug := range slugs {
		if product, ok := s.prices[slug]; ok {
			matched[slug] = product
		}
	}
	return matched, nil
}

func testCatalog() *stubCatalog {
	return &stubCatalog{prices: map[string]models.Product{
		"soft-serve-ice-cream": {Slug: "soft-serve-ice-cream", Name: "Strawberry", CategoryID: "ice-cream", PriceKsh: decimal.NewFromInt(1500)},
		"vanilla-ice-cream":    {Slug: "vanilla-ice-cream", Name: "Vanilla", CategoryID: "ice-cream", PriceKsh: decimal.NewFromInt(1500)},
		"mango-yogurt":         {Slug: "mango-yogurt", Name: "Mango (Kids)", CategoryID: "yogurt", PriceKsh: decimal.NewFromInt(110)},
	}}
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummaryPricesAndSortsByName(t *testing.T) {
	svc, err := NewService(testCatalog())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	summary, err := svc.Summary(context.Background(), cart.Items{
		"vanilla-ice-cream": dec("1"),
		"mango-yogurt":      dec("2"),
	})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if len(summary.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(summary.Lines))
	}
	if summary.Lines[0].Name != "Mango (Kids)" || summary.Lines[1].Name != "Vanilla" {
		t.Fatalf("lines not sorted by name: %+v", summary.Lines)
	}
	if !summary.Lines[0].LineTotalKsh.Equal(dec("220")) {
		t.Fatalf("unexpected yogurt line total %s", summary.Lines[0].LineTotalKsh)
	}
	if !summary.TotalKsh.Equal(dec("1720")) {
		t.Fatalf("expected total 1720, got %s", summary.TotalKsh)
	}
	if !summary.TotalQuantity.Equal(dec("3")) {
		t.Fatalf("expected quantity 3, got %s", summary.TotalQuantity)
	}
}

func TestSummaryFractionalLitresRoundToWholeShillings(t *testing.T) {
	svc, _ := NewService(testCatalog())

	summary, err := svc.Summary(context.Background(), cart.Items{
		"soft-serve-ice-cream": dec("0.5"),
	})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.Lines[0].LineTotalKsh.Equal(dec("750")) {
		t.Fatalf("expected 750 for half a litre, got %s", summary.Lines[0].LineTotalKsh)
	}

	// 0.33 L * 1500 = 495 exactly; 0.3333.. style drift never reaches here
	summary, err = svc.Summary(context.Background(), cart.Items{
		"soft-serve-ice-cream": dec("0.33"),
	})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.Lines[0].LineTotalKsh.Equal(dec("495")) {
		t.Fatalf("expected 495, got %s", summary.Lines[0].LineTotalKsh)
	}
}

func TestSummaryDropsUnknownSlugs(t *testing.T) {
	svc, _ := NewService(testCatalog())

	summary, err := svc.Summary(context.Background(), cart.Items{
		"vanilla-ice-cream": dec("1"),
		"discontinued":      dec("4"),
	})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary.Lines) != 1 {
		t.Fatalf("expected unknown slug dropped, got %+v", summary.Lines)
	}
	if !summary.TotalKsh.Equal(dec("1500")) {
		t.Fatalf("unexpected total %s", summary.TotalKsh)
	}
}

func TestSummaryEmptyCart(t *testing.T) {
	svc, _ := NewService(testCatalog())

	summary, err := svc.Summary(context.Background(), cart.Items{})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary.Lines) != 0 || !summary.TotalKsh.IsZero() {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestMetadataItems(t *testing.T) {
	summary := &Summary{Lines: []Line{{
		Slug:         "soft-serve-ice-cream",
		Name:         "Strawberry",
		Quantity:     dec("0.5"),
		LineTotalKsh: dec("750"),
	}}}

	items := summary.MetadataItems()
	if len(items) != 1 {
		t.Fatalf("expected 1 metadata item, got %d", len(items))
	}
	if items[0].LineTotalKsh != 750 || items[0].Quantity != 0.5 {
		t.Fatalf("unexpected metadata item %+v", items[0])
	}
}
