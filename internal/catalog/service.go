package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/ecocycle/ecocycle-backend/pkg/metrics"
	"github.com/ecocycle/ecocycle-backend/pkg/pagination"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
	"github.com/google/uuid"
)

// ServiceParams groups dependencies for the seller catalog service.
type ServiceParams struct {
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
	Now     func() time.Time
}

// Service exposes the seller catalog contract: listing CRUD with stable
// insertion order.
type Service interface {
	List(ctx context.Context, params pagination.Params) ([]Product, int, error)
	ProductsBySeller(ctx context.Context, sellerID string) ([]Product, error)
	ProductByID(ctx context.Context, id string) (Product, bool, error)
	AddProduct(ctx context.Context, input NewProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (Product, bool, error)
	DeleteProduct(ctx context.Context, id string) error
}

type service struct {
	kv      storage.KV
	logg    *logger.Logger
	metrics *metrics.StoreMetrics
	now     func() time.Time

	mu       sync.Mutex
	products []Product
}

// NewService loads the persisted catalog and returns the store. Corrupted
// persisted state is discarded and the catalog starts empty.
func NewService(ctx context.Context, params ServiceParams) (Service, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog storage is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}

	s := &service{
		kv:       params.KV,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      params.Now,
		products: []Product{},
	}

	corrupt, err := storage.LoadJSON(ctx, s.kv, storage.KeySellerProducts, &s.products)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}
	if corrupt {
		s.products = []Product{}
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStoreKey(ctx, storage.KeySellerProducts), "discarded corrupt catalog state")
		}
	}
	return s, nil
}

// List returns a page of listings in insertion order plus the total count.
func (s *service) List(ctx context.Context, params pagination.Params) ([]Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := pagination.Window(len(s.products), params)
	page := make([]Product, end-start)
	copy(page, s.products[start:end])
	return page, len(s.products), nil
}

func (s *service) ProductsBySeller(ctx context.Context, sellerID string) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []Product{}
	for _, product := range s.products {
		if product.SellerID == sellerID {
			matched = append(matched, product)
		}
	}
	return matched, nil
}

func (s *service) ProductByID(ctx context.Context, id string) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, product := range s.products {
		if product.ID == id {
			return product, true, nil
		}
	}
	return Product{}, false, nil
}

// AddProduct validates the input, assigns an id and creation timestamp, and
// appends the listing.
func (s *service) AddProduct(ctx context.Context, input NewProductInput) (Product, error) {
	if strings.TrimSpace(input.Title) == "" {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !input.Category.IsValid() {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid material category")
	}
	if !input.ListingType.IsValid() {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing type")
	}
	if err := validateImages(ctx, input.Images); err != nil {
		return Product{}, err
	}

	product := Product{
		ID:             uuid.NewString(),
		SellerID:       input.SellerID,
		Title:          input.Title,
		Category:       input.Category,
		Quantity:       input.Quantity,
		Location:       input.Location,
		Price:          input.Price,
		ListingType:    input.ListingType,
		Condition:      input.Condition,
		Description:    input.Description,
		Specifications: input.Specifications,
		Images:         input.Images,
		MinimumOrder:   input.MinimumOrder,
		LeadTime:       input.LeadTime,
		Certifications: input.Certifications,
		CreatedAt:      s.now().UTC(),
		Seller:         input.Seller,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append(s.products, product)
	if err := s.persist(ctx); err != nil {
		return Product{}, err
	}
	s.metrics.IncMutation("catalog", "add")
	return product, nil
}

// UpdateProduct merges the non-nil patch fields into the matching listing.
// An unknown id leaves the catalog untouched and reports found=false rather
// than failing.
func (s *service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (Product, bool, error) {
	if patch.Category != nil && !patch.Category.IsValid() {
		return Product{}, false, pkgerrors.New(pkgerrors.CodeValidation, "invalid material category")
	}
	if patch.ListingType != nil && !patch.ListingType.IsValid() {
		return Product{}, false, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing type")
	}
	if patch.Images != nil {
		if err := validateImages(ctx, *patch.Images); err != nil {
			return Product{}, false, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		applyPatch(&s.products[i], patch)
		if err := s.persist(ctx); err != nil {
			return Product{}, false, err
		}
		s.metrics.IncMutation("catalog", "update")
		return s.products[i], true, nil
	}
	return Product{}, false, nil
}

// DeleteProduct removes the matching listing and is a no-op when absent.
func (s *service) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.products[:0]
	for _, product := range s.products {
		if product.ID != id {
			kept = append(kept, product)
		}
	}
	s.products = kept

	if err := s.persist(ctx); err != nil {
		return err
	}
	s.metrics.IncMutation("catalog", "delete")
	return nil
}

func (s *service) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, s.kv, storage.KeySellerProducts, s.products); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist catalog")
	}
	return nil
}

func applyPatch(product *Product, patch ProductPatch) {
	if patch.Title != nil {
		product.Title = *patch.Title
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Quantity != nil {
		product.Quantity = *patch.Quantity
	}
	if patch.Location != nil {
		product.Location = *patch.Location
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.ListingType != nil {
		product.ListingType = *patch.ListingType
	}
	if patch.Condition != nil {
		product.Condition = *patch.Condition
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Specifications != nil {
		product.Specifications = *patch.Specifications
	}
	if patch.Images != nil {
		product.Images = *patch.Images
	}
	if patch.MinimumOrder != nil {
		product.MinimumOrder = *patch.MinimumOrder
	}
	if patch.LeadTime != nil {
		product.LeadTime = *patch.LeadTime
	}
	if patch.Certifications != nil {
		product.Certifications = *patch.Certifications
	}
	if patch.Seller != nil {
		product.Seller = *patch.Seller
	}
}
