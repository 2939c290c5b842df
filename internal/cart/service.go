package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/westwooddairy/storefront-backend/pkg/errors"
)

// quantityPlaces is the precision carts are normalized to. Two places keeps
// fractional litres while avoiding float drift from clients.
const quantityPlaces = 2

// Event is broadcast to subscribers after every successful write.
type Event struct {
	Items Items           `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Service owns cart reads, writes, and change notifications.
type Service interface {
	Items(ctx context.Context) (Items, error)
	SetQuantity(ctx context.Context, slug string, qty decimal.Decimal) (Items, error)
	Adjust(ctx context.Context, slug string, delta decimal.Decimal) (Items, error)
	Clear(ctx context.Context) error
	Subscribe() (<-chan Event, func())
}

type service struct {
	storage Storage

	mu          sync.Mutex
	subscribers map[int]chan Event
	nextSubID   int
}

// NewService builds a cart service over the given storage.
func NewService(storage Storage) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	return &service{
		storage:     storage,
		subscribers: make(map[int]chan Event),
	}, nil
}

func (s *service) Items(ctx context.Context) (Items, error) {
	payload, present, err := s.storage.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	if !present {
		return Items{}, nil
	}
	return decodeItems(payload), nil
}

func (s *service) SetQuantity(ctx context.Context, slug string, qty decimal.Decimal) (Items, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	applyQuantity(items, slug, qty)

	if err := s.persistLocked(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) Adjust(ctx context.Context, slug string, delta decimal.Decimal) (Items, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}

	applyQuantity(items, slug, items[slug].Add(delta))

	if err := s.persistLocked(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	s.broadcastLocked(Items{})
	return nil
}

// Subscribe registers a change listener. The returned cancel func must be
// called to release the channel. Slow subscribers drop events rather than
// block writes.
func (s *service) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Event, 8)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(existing)
		}
	}
	return ch, cancel
}

// applyQuantity clamps to zero, normalizes precision, and removes the slug
// when the quantity lands at exactly zero.
func applyQuantity(items Items, slug string, qty decimal.Decimal) {
	normalized := qty.Round(quantityPlaces)
	if normalized.LessThanOrEqual(decimal.Zero) {
		delete(items, slug)
		return
	}
	items[slug] = normalized
}

func (s *service) persistLocked(ctx context.Context, items Items) error {
	payload, err := encodeItems(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.storage.Save(ctx, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	s.broadcastLocked(items)
	return nil
}

func (s *service) broadcastLocked(items Items) {
	event := Event{Items: items.Clone(), Total: items.Total()}
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// encodeItems writes quantities as bare JSON numbers so the payload stays
// readable by clients that expect plain number maps.
func encodeItems(items Items) (string, error) {
	slugs := make([]string, 0, len(items))
	for slug := range items {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	var builder strings.Builder
	builder.WriteByte('{')
	for i, slug := range slugs {
		if i > 0 {
			builder.WriteByte(',')
		}
		key, err := json.Marshal(slug)
		if err != nil {
			return "", err
		}
		builder.Write(key)
		builder.WriteByte(':')
		builder.WriteString(items[slug].String())
	}
	builder.WriteByte('}')
	return builder.String(), nil
}

// decodeItems tolerates malformed payloads by starting from an empty cart,
// and drops entries that are not positive numbers.
func decodeItems(payload string) Items {
	decoder := json.NewDecoder(strings.NewReader(payload))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return Items{}
	}
	items := make(Items, len(raw))
	for slug, value := range raw {
		if slug == "" {
			continue
		}
		number, ok := value.(json.Number)
		if !ok {
			continue
		}
		qty, err := decimal.NewFromString(number.String())
		if err != nil {
			continue
		}
		qty = qty.Round(quantityPlaces)
		if qty.LessThanOrEqual(decimal.Zero) {
			continue
		}
		items[slug] = qty
	}
	return items
}
