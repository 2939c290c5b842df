package orders

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/westwooddairy/storefront-backend/pkg/config"
	"github.com/westwooddairy/storefront-backend/pkg/supabase"
)

func TestNewSupabaseStoreNilClient(t *testing.T) {
	if store := NewSupabaseStore(nil); store != nil {
		t.Fatalf("expected nil store for nil client, got %+v", store)
	}
}

func TestInsertPendingDefaultsStatus(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	store := NewSupabaseStore(supabase.NewClient(config.SupabaseConfig{URL: server.URL, AnonKey: "anon"}))
	reference := "ww_123"
	err := store.InsertPending(context.Background(), Order{
		CustomerEmail:     "customer@example.com",
		TotalKsh:          1720,
		Currency:          "KES",
		PaymentProvider:   "paystack",
		PaystackReference: &reference,
		Items: []CheckoutItem{
			{Slug: "vanilla-ice-cream", Name: "Vanilla", Quantity: 1, LineTotalKsh: 1500},
			{Slug: "mango-yogurt", Name: "Mango (Kids)", Quantity: 2, LineTotalKsh: 220},
		},
	})
	if err != nil {
		t.Fatalf("InsertPending: %v", err)
	}

	if gotBody["payment_status"] != "pending" {
		t.Fatalf("expected pending status, got %v", gotBody["payment_status"])
	}
	if gotBody["total_ksh"] != float64(1720) {
		t.Fatalf("unexpected total %v", gotBody["total_ksh"])
	}
	items, ok := gotBody["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("unexpected items payload %v", gotBody["items"])
	}
	first, _ := items[0].(map[string]any)
	if first["lineTotalKsh"] != float64(1500) {
		t.Fatalf("unexpected line total %v", first["lineTotalKsh"])
	}
}

func TestUpdatePaymentStatusFiltersByReference(t *testing.T) {
	var gotQuery, gotMethod string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	store := NewSupabaseStore(supabase.NewClient(config.SupabaseConfig{
		URL:            server.URL,
		ServiceRoleKey: "svc",
	}))
	if !store.CanUpdateStatuses() {
		t.Fatal("expected service-role store to allow updates")
	}

	payload := json.RawMessage(`{"event":"charge.success","data":{"reference":"ww_123"}}`)
	if err := store.UpdatePaymentStatus(context.Background(), "ww_123", StatusSuccess, payload); err != nil {
		t.Fatalf("UpdatePaymentStatus: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Fatalf("expected PATCH, got %s", gotMethod)
	}
	if gotQuery != "paystack_reference=eq.ww_123" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotBody["payment_status"] != "success" {
		t.Fatalf("unexpected status %v", gotBody["payment_status"])
	}
	if _, ok := gotBody["paystack_payload"].(map[string]any); !ok {
		t.Fatalf("expected raw payload object, got %v", gotBody["paystack_payload"])
	}
}

func TestAnonStoreCannotUpdateStatuses(t *testing.T) {
	store := NewSupabaseStore(supabase.NewClient(config.SupabaseConfig{
		URL:     "https://db.example.com",
		AnonKey: "anon",
	}))
	if store.CanUpdateStatuses() {
		t.Fatal("anon-key store must not report update capability")
	}
}
