package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// Items maps product slug to quantity. Quantities are positive decimals
// rounded to two places; soft serve is sold in fractional litres. A missing
// slug means zero.
type Items map[string]decimal.Decimal

// Total sums the quantities across all slugs.
func (i Items) Total() decimal.Decimal {
	total := decimal.Zero
	for _, qty := range i {
		total = total.Add(qty)
	}
	return total
}

// Clone returns an independent copy so subscribers cannot mutate shared state.
func (i Items) Clone() Items {
	out := make(Items, len(i))
	for slug, qty := range i {
		out[slug] = qty
	}
	return out
}

// Storage persists the serialized cart under a single storage key.
// Writes replace the whole cart (last writer wins).
type Storage interface {
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, payload string) error
	Clear(ctx context.Context) error
}
