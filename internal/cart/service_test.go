package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewMemoryStorage())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func qty(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSetQuantityClampsAndDeletes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	items, err := svc.SetQuantity(ctx, "mango-yogurt", qty("3"))
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if !items["mango-yogurt"].Equal(qty("3")) {
		t.Fatalf("expected qty 3, got %s", items["mango-yogurt"])
	}

	// negative clamps to zero and removes the entry entirely
	items, err = svc.SetQuantity(ctx, "mango-yogurt", qty("-5"))
	if err != nil {
		t.Fatalf("SetQuantity negative: %v", err)
	}
	if _, ok := items["mango-yogurt"]; ok {
		t.Fatalf("expected slug removed at zero, got %v", items)
	}

	stored, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("expected empty cart, got %v", stored)
	}
}

func TestFractionalLitres(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	items, err := svc.SetQuantity(ctx, "soft-serve-ice-cream", qty("0.5"))
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if !items["soft-serve-ice-cream"].Equal(qty("0.5")) {
		t.Fatalf("expected 0.5 litres, got %s", items["soft-serve-ice-cream"])
	}

	// quantities normalize to two places
	items, err = svc.SetQuantity(ctx, "soft-serve-ice-cream", qty("0.125"))
	if err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if !items["soft-serve-ice-cream"].Equal(qty("0.13")) {
		t.Fatalf("expected rounding to 0.13, got %s", items["soft-serve-ice-cream"])
	}
}

func TestAdjustAccumulatesAndFloorsAtZero(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Adjust(ctx, "maziwa-lala", qty("2")); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	items, err := svc.Adjust(ctx, "maziwa-lala", qty("1"))
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if !items["maziwa-lala"].Equal(qty("3")) {
		t.Fatalf("expected qty 3, got %s", items["maziwa-lala"])
	}

	items, err = svc.Adjust(ctx, "maziwa-lala", qty("-10"))
	if err != nil {
		t.Fatalf("Adjust down: %v", err)
	}
	if _, ok := items["maziwa-lala"]; ok {
		t.Fatalf("expected removal when adjusted below zero, got %v", items)
	}
}

func TestSetQuantityRequiresSlug(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SetQuantity(context.Background(), "", qty("1"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMalformedPayloadStartsEmpty(t *testing.T) {
	storage := NewMemoryStorage()
	if err := storage.Save(context.Background(), "{not json"); err != nil {
		t.Fatalf("seed storage: %v", err)
	}
	svc, err := NewService(storage)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	items, err := svc.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart for malformed payload, got %v", items)
	}
}

func TestBadStoredEntriesDropped(t *testing.T) {
	storage := NewMemoryStorage()
	payload := `{"a":2,"b":0,"c":-3,"d":"two","e":0.5}`
	if err := storage.Save(context.Background(), payload); err != nil {
		t.Fatalf("seed storage: %v", err)
	}
	svc, _ := NewService(storage)

	items, err := svc.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 valid entries, got %v", items)
	}
	if !items["a"].Equal(qty("2")) || !items["e"].Equal(qty("0.5")) {
		t.Fatalf("unexpected surviving entries %v", items)
	}
}

func TestPersistedPayloadUsesBareNumbers(t *testing.T) {
	storage := NewMemoryStorage()
	svc, _ := NewService(storage)
	ctx := context.Background()

	if _, err := svc.SetQuantity(ctx, "soft-serve-ice-cream", qty("0.5")); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if _, err := svc.SetQuantity(ctx, "maziwa-lala", qty("2")); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}

	payload, present, err := storage.Load(ctx)
	if err != nil || !present {
		t.Fatalf("Load: present=%v err=%v", present, err)
	}
	want := `{"maziwa-lala":2,"soft-serve-ice-cream":0.5}`
	if payload != want {
		t.Fatalf("expected payload %s, got %s", want, payload)
	}
}

func TestSubscribeReceivesTotals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	events, cancel := svc.Subscribe()
	defer cancel()

	if _, err := svc.SetQuantity(ctx, "vanilla-ice-cream", qty("2")); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if _, err := svc.Adjust(ctx, "maziwa-lala", qty("1.5")); err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	first := <-events
	if !first.Total.Equal(qty("2")) {
		t.Fatalf("expected total 2, got %s", first.Total)
	}
	second := <-events
	if !second.Total.Equal(qty("3.5")) {
		t.Fatalf("expected total 3.5, got %s", second.Total)
	}
	if !second.Items["vanilla-ice-cream"].Equal(qty("2")) {
		t.Fatalf("unexpected items %v", second.Items)
	}
}

func TestSubscriberCopyIsolated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	events, cancel := svc.Subscribe()
	defer cancel()

	if _, err := svc.SetQuantity(ctx, "vanilla-ice-cream", qty("1")); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	event := <-events
	event.Items["vanilla-ice-cream"] = qty("99")

	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if !items["vanilla-ice-cream"].Equal(qty("1")) {
		t.Fatalf("subscriber mutation leaked into storage: %v", items)
	}
}

func TestClearBroadcastsEmpty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SetQuantity(ctx, "vanilla-ice-cream", qty("4")); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}

	events, cancel := svc.Subscribe()
	defer cancel()

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	event := <-events
	if !event.Total.IsZero() || len(event.Items) != 0 {
		t.Fatalf("expected empty broadcast, got %+v", event)
	}

	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart after clear, got %v", items)
	}
}
