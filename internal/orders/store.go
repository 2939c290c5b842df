package orders

import (
	"context"
	"encoding/json"

	"github.com/westwooddairy/storefront-backend/pkg/supabase"
)

const ordersTable = "orders"

// Store persists order bookkeeping records.
type Store interface {
	InsertPending(ctx context.Context, order Order) error
	UpdatePaymentStatus(ctx context.Context, reference string, status Status, payload json.RawMessage) error
	// CanUpdateStatuses reports whether the store holds credentials strong
	// enough to patch existing rows.
	CanUpdateStatuses() bool
}

type supabaseStore struct {
	client *supabase.Client
}

// NewSupabaseStore builds an order store over the managed datastore. Returns
// nil when the datastore is not configured, so callers can treat order
// bookkeeping as optional.
func NewSupabaseStore(client *supabase.Client) Store {
	if client == nil {
		return nil
	}
	return &supabaseStore{client: client}
}

func (s *supabaseStore) InsertPending(ctx context.Context, order Order) error {
	if order.PaymentStatus == "" {
		order.PaymentStatus = StatusPending
	}
	return s.client.Insert(ctx, ordersTable, order)
}

func (s *supabaseStore) UpdatePaymentStatus(ctx context.Context, reference string, status Status, payload json.RawMessage) error {
	update := StatusUpdate{
		PaymentStatus:   status,
		PaystackPayload: payload,
	}
	return s.client.UpdateEq(ctx, ordersTable, "paystack_reference", reference, update)
}

func (s *supabaseStore) CanUpdateStatuses() bool {
	return s.client.HasServiceRole()
}
