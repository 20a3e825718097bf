package watchlist

import (
	"context"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/ecocycle/ecocycle-backend/pkg/metrics"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
)

// ServiceParams groups dependencies for the watchlist service.
type ServiceParams struct {
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
	Now     func() time.Time
}

// Service exposes the saved-listing set. Membership is unique per id.
type Service interface {
	Items(ctx context.Context) ([]Item, error)
	Add(ctx context.Context, item Item) error
	Remove(ctx context.Context, id string) error
	IsWatched(ctx context.Context, id string) (bool, error)
	Clear(ctx context.Context) error
}

type service struct {
	kv      storage.KV
	logg    *logger.Logger
	metrics *metrics.StoreMetrics
	now     func() time.Time

	mu    sync.Mutex
	items []Item
}

// NewService loads the persisted watchlist; corrupt state starts empty.
func NewService(ctx context.Context, params ServiceParams) (Service, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "watchlist storage is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}

	s := &service{
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     params.Now,
		items:   []Item{},
	}

	corrupt, err := storage.LoadJSON(ctx, s.kv, storage.KeyWatchlist, &s.items)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load watchlist")
	}
	if corrupt {
		s.items = []Item{}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStoreKey(ctx, storage.KeyWatchlist), "discarded corrupt watchlist state")
		}
	}
	return s, nil
}

func (s *service) Items(ctx context.Context) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Add appends with a fresh AddedDate and is a no-op if the id is already
// present: toggling twice from two views must not duplicate the entry.
func (s *service) Add(ctx context.Context, item Item) error {
	if strings.TrimSpace(item.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.ID == item.ID {
			return nil
		}
	}

	item.AddedDate = s.now()
	s.items = append(s.items, item)

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.metrics.IncMutation("watchlist", "add")
	return nil
}

// Remove deletes by id and is a no-op when absent.
func (s *service) Remove(ctx context.Context, id string) error {
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
		return err
	}
	s.metrics.IncMutation("watchlist", "remove")
	return nil
}

func (s *service) IsWatched(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []Item{}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.metrics.IncMutation("watchlist", "clear")
	return nil
}

func (s *service) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, s.kv, storage.KeyWatchlist, s.items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist watchlist")
	}
	return nil
}
