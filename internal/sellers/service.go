package sellers

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/ecocycle/ecocycle-backend/pkg/metrics"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
)

// Profile is the seller business record collected on the setup page.
type Profile struct {
	Company         string `json:"company"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zip_code"`
	BusinessLicense string `json:"business_license"`
	GSTNumber       string `json:"gst_number"`
	UserID          string `json:"user_id"`
}

// ServiceParams groups dependencies for the seller profile service.
type ServiceParams struct {
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
}

// Service stores the single seller business profile, overwritten wholesale
// on save.
type Service interface {
	Profile(ctx context.Context) (Profile, bool, error)
	Save(ctx context.Context, profile Profile) (Profile, error)
}

type service struct {
	kv      storage.KV
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	mu      sync.Mutex
	profile *Profile
}

// NewService loads any persisted profile and returns the store. Corrupted
// persisted state is discarded.
func NewService(ctx context.Context, params ServiceParams) (Service, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller profile storage is required")
	}

	s := &service{
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
	}

	var persisted Profile
	corrupt, err := storage.LoadJSON(ctx, s.kv, storage.KeySellerProfile, &persisted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller profile")
	}
	if corrupt {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStoreKey(ctx, storage.KeySellerProfile), "discarded corrupt seller profile")
		}
	} else if persisted != (Profile{}) {
		s.profile = &persisted
	}
	return s, nil
}

func (s *service) Profile(ctx context.Context) (Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile == nil {
		return Profile{}, false, nil
	}
	return *s.profile, true, nil
}

// Save replaces the whole record. Company, phone, and address are the
// required setup fields.
func (s *service) Save(ctx context.Context, profile Profile) (Profile, error) {
	if strings.TrimSpace(profile.Company) == "" ||
		strings.TrimSpace(profile.Phone) == "" ||
		strings.TrimSpace(profile.Address) == "" {
		return Profile{}, pkgerrors.New(pkgerrors.CodeValidation, "Please fill in all required fields")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = &profile
	if err := storage.SaveJSON(ctx, s.kv, storage.KeySellerProfile, s.profile); err != nil {
		return Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist seller profile")
	}
	s.metrics.IncMutation("seller_profile", "save")
	return profile, nil
}
