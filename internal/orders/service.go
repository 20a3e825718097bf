package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/ecocycle/ecocycle-backend/pkg/metrics"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
	"github.com/google/uuid"
)

// ServiceParams groups dependencies for the order history service.
type ServiceParams struct {
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
	Now     func() time.Time
}

// Service records confirmed orders and serves the history.
type Service interface {
	Record(ctx context.Context, input NewOrderInput) (Order, error)
	List(ctx context.Context) ([]Order, error)
	OrderByID(ctx context.Context, id string) (Order, bool, error)
	Rate(ctx context.Context, id string, input RatingInput) (Order, error)
}

type service struct {
	kv      storage.KV
	logg    *logger.Logger
	metrics *metrics.StoreMetrics
	now     func() time.Time

	mu     sync.Mutex
	orders []Order
}

// NewService loads the persisted history and returns the store. Corrupted
// persisted state is discarded and the history starts empty.
func NewService(ctx context.Context, params ServiceParams) (Service, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order storage is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}

	s := &service{
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     params.Now,
		orders:  []Order{},
	}

	corrupt, err := storage.LoadJSON(ctx, s.kv, storage.KeyOrders, &s.orders)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}
	if corrupt {
		s.orders = []Order{}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStoreKey(ctx, storage.KeyOrders), "discarded corrupt order history")
		}
	}
	return s, nil
}

// Record appends a confirmed order with a fresh id and timestamp.
func (s *service) Record(ctx context.Context, input NewOrderInput) (Order, error) {
	if len(input.Items) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "an order needs at least one item")
	}

	order := Order{
		ID:               uuid.NewString(),
		Items:            input.Items,
		Delivery:         input.Delivery,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: input.PaymentReference,
		Subtotal:         input.Subtotal,
		Tax:              input.Tax,
		Total:            input.Total,
		Status:           StatusConfirmed,
		CreatedAt:        s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append(s.orders, order)
	if err := storage.SaveJSON(ctx, s.kv, storage.KeyOrders, s.orders); err != nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist orders")
	}
	s.metrics.IncMutation("orders", "record")
	return order, nil
}

// List returns the history newest first.
func (s *service) List(ctx context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listed := make([]Order, len(s.orders))
	for i, order := range s.orders {
		listed[len(s.orders)-1-i] = order
	}
	return listed, nil
}

// Rate attaches the buyer's feedback to an order. An order holds at most one
// rating; repeat submissions are rejected rather than overwritten.
func (s *service) Rate(ctx context.Context, id string, input RatingInput) (Order, error) {
	if input.Stars < 1 || input.Stars > 5 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5 stars")
	}
	if len(input.Review) > MaxReviewLength {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "review cannot exceed 500 characters")
	}
	for _, aspect := range input.Aspects {
		if !validAspect(aspect) {
			return Order{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown rating aspect %q", aspect))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, order := range s.orders {
		if order.ID != id {
			continue
		}
		if order.Rating != nil {
			return Order{}, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("order %s already has a rating", id))
		}
		s.orders[i].Rating = &OrderRating{
			Stars:   input.Stars,
			Aspects: input.Aspects,
			Review:  input.Review,
			RatedAt: s.now().UTC(),
		}
		if err := storage.SaveJSON(ctx, s.kv, storage.KeyOrders, s.orders); err != nil {
			s.orders[i].Rating = nil
			return Order{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist orders")
		}
		s.metrics.IncMutation("orders", "rate")
		return s.orders[i], nil
	}
	return Order{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order %s not found", id))
}

func validAspect(aspect string) bool {
	for _, known := range RatingAspects {
		if known == aspect {
			return true
		}
	}
	return false
}

func (s *service) OrderByID(ctx context.Context, id string) (Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, order := range s.orders {
		if order.ID == id {
			return order, true, nil
		}
	}
	return Order{}, false, nil
}
