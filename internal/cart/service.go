package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/ecocycle/ecocycle-backend/pkg/enums"
	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/ecocycle/ecocycle-backend/pkg/metrics"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
	"github.com/shopspring/decimal"
)

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
	TaxRate decimal.Decimal
}

// Service exposes the cart contract: merge-on-add line items with derived
// subtotal/tax/total.
type Service interface {
	Get(ctx context.Context) (DTO, error)
	AddItem(ctx context.Context, item LineItem) (DTO, error)
	RemoveItem(ctx context.Context, id string) (DTO, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (DTO, error)
	Clear(ctx context.Context) error
}

type service struct {
	kv      storage.KV
	logg    *logger.Logger
	metrics *metrics.StoreMetrics
	taxRate decimal.Decimal

	mu    sync.Mutex
	items []LineItem
}

// NewService loads the persisted cart and returns the store. Corrupted
// persisted state is discarded and the cart starts empty.
func NewService(ctx context.Context, params ServiceParams) (Service, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart storage is required")
	}

	s := &service{
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
		taxRate: params.TaxRate,
		items:   []LineItem{},
	}

	corrupt, err := storage.LoadJSON(ctx, s.kv, storage.KeyCart, &s.items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if corrupt {
		s.items = []LineItem{}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStoreKey(ctx, storage.KeyCart), "discarded corrupt cart state")
		}
	}
	return s, nil
}

func (s *service) Get(ctx context.Context) (DTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// AddItem merges with an existing entry by id, summing quantities, and
// recomputes the line total. Quantities have no upper bound.
func (s *service) AddItem(ctx context.Context, item LineItem) (DTO, error) {
	if strings.TrimSpace(item.ID) == "" {
		return DTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if item.Quantity <= 0 {
		return DTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}
	if item.UnitPrice.IsNegative() {
		return DTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	if !item.ListingType.IsValid() {
		return DTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity += item.Quantity
			s.items[i].TotalPrice = lineTotal(s.items[i])
			merged = true
			break
		}
	}
	if !merged {
		item.TotalPrice = lineTotal(item)
		s.items = append(s.items, item)
	}

	if err := s.persist(ctx); err != nil {
		return DTO{}, err
	}
	s.metrics.IncMutation("cart", "add")
	return s.snapshot(), nil
}

// RemoveItem deletes the matching entry and is a no-op when absent.
func (s *service) RemoveItem(ctx context.Context, id string) (DTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept

	if err := s.persist(ctx); err != nil {
		return DTO{}, err
	}
	s.metrics.IncMutation("cart", "remove")
	return s.snapshot(), nil
}

// UpdateQuantity sets the quantity and recomputes the line total. A
// quantity of zero or less behaves exactly like RemoveItem.
func (s *service) UpdateQuantity(ctx context.Context, id string, quantity int) (DTO, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			s.items[i].TotalPrice = lineTotal(s.items[i])
			break
		}
	}

	if err := s.persist(ctx); err != nil {
		return DTO{}, err
	}
	s.metrics.IncMutation("cart", "update_quantity")
	return s.snapshot(), nil
}

// Clear empties the collection, as happens on order completion.
func (s *service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []LineItem{}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.metrics.IncMutation("cart", "clear")
	return nil
}

func (s *service) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, s.kv, storage.KeyCart, s.items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

// snapshot copies the items and derives the totals. Donate items carry a
// line total for display but contribute nothing to the subtotal.
func (s *service) snapshot() DTO {
	items := make([]LineItem, len(s.items))
	copy(items, s.items)

	subtotal := decimal.Zero
	for _, item := range items {
		if item.ListingType == enums.ListingTypeSell {
			subtotal = subtotal.Add(item.TotalPrice)
		}
	}
	tax := subtotal.Mul(s.taxRate).Round(2)

	return DTO{
		Items: items,
		Totals: Totals{
			Subtotal: subtotal,
			Tax:      tax,
			Total:    subtotal.Add(tax),
		},
	}
}

func lineTotal(item LineItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
