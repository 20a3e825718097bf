package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ecocycle/ecocycle-backend/pkg/enums"
	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/ecocycle/ecocycle-backend/pkg/metrics"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
	"github.com/google/uuid"
)

// ServiceParams groups dependencies for the session service.
type ServiceParams struct {
	KV      storage.KV
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
	// Latency simulates the auth round trip on Login and Signup.
	Latency time.Duration
	Now     func() time.Time
}

// SignupInput carries everything a new account needs.
type SignupInput struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Name     string         `json:"name"`
	UserType enums.UserType `json:"user_type"`
}

// Service owns the single mutable session record. Authentication is mocked:
// any email/password pair signs in and produces a deterministic demo
// profile.
type Service interface {
	Login(ctx context.Context, email, password string) (User, error)
	Signup(ctx context.Context, input SignupInput) (User, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (User, error)
	UpdateProfile(ctx context.Context, patch ProfilePatch) (User, error)
	UpdatePreferences(ctx context.Context, patch PreferencesPatch) (User, error)
}

type service struct {
	kv      storage.KV
	logg    *logger.Logger
	metrics *metrics.StoreMetrics
	latency time.Duration
	now     func() time.Time

	mu   sync.Mutex
	user *User
}

// NewService loads any persisted session and returns the store. Corrupted
// persisted state is discarded and the session starts signed out.
func NewService(ctx context.Context, params ServiceParams) (Service, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session storage is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}

	s := &service{
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
		latency: params.Latency,
		now:     params.Now,
	}

	var persisted User
	corrupt, err := storage.LoadJSON(ctx, s.kv, storage.KeyUser, &persisted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if corrupt {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStoreKey(ctx, storage.KeyUser), "discarded corrupt session state")
		}
	} else if persisted.ID != "" {
		s.user = &persisted
	}
	return s, nil
}

// Login accepts any credentials and installs a demo seller profile derived
// from the email address.
func (s *service) Login(ctx context.Context, email, password string) (User, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "Email and password required")
	}
	if err := s.simulateLatency(ctx); err != nil {
		return User{}, err
	}

	user := demoUser(email, s.now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	if err := s.persist(ctx); err != nil {
		return User{}, err
	}
	s.metrics.IncMutation("session", "login")
	return user, nil
}

// Signup creates a fresh account with zeroed impact stats.
func (s *service) Signup(ctx context.Context, input SignupInput) (User, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "Email and password required")
	}
	if input.UserType != "" && !input.UserType.IsValid() {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid user type")
	}
	if err := s.simulateLatency(ctx); err != nil {
		return User{}, err
	}

	name := input.Name
	if strings.TrimSpace(name) == "" {
		name = localPart(input.Email)
	}
	userType := input.UserType
	if userType == "" {
		userType = enums.UserTypeBuyer
	}
	user := User{
		ID:        uuid.NewString(),
		Email:     input.Email,
		Name:      name,
		UserType:  userType,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	if err := s.persist(ctx); err != nil {
		return User{}, err
	}
	s.metrics.IncMutation("session", "signup")
	return user, nil
}

// Logout clears the record and its persisted copy.
func (s *service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if err := s.kv.Delete(ctx, storage.KeyUser); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session")
	}
	s.metrics.IncMutation("session", "logout")
	return nil
}

func (s *service) Current(ctx context.Context) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return User{}, pkgerrors.New(pkgerrors.CodeNotFound, "no active session")
	}
	return *s.user, nil
}

// UpdateProfile merges the non-nil patch fields, then overwrites the whole
// persisted record.
func (s *service) UpdateProfile(ctx context.Context, patch ProfilePatch) (User, error) {
	if patch.UserType != nil && !patch.UserType.IsValid() {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid user type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return User{}, pkgerrors.New(pkgerrors.CodeNotFound, "no active session")
	}
	if patch.Name != nil {
		s.user.Name = *patch.Name
	}
	if patch.UserType != nil {
		s.user.UserType = *patch.UserType
	}
	if patch.Company != nil {
		s.user.Company = *patch.Company
	}
	if patch.Location != nil {
		s.user.Location = *patch.Location
	}
	if patch.Bio != nil {
		s.user.Bio = *patch.Bio
	}

	if err := s.persist(ctx); err != nil {
		return User{}, err
	}
	s.metrics.IncMutation("session", "update_profile")
	return *s.user, nil
}

// UpdatePreferences merges the onboarding answers into the session user.
func (s *service) UpdatePreferences(ctx context.Context, patch PreferencesPatch) (User, error) {
	if patch.ContributionFocus != nil && !patch.ContributionFocus.IsValid() {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid contribution focus")
	}
	if patch.Frequency != nil && !patch.Frequency.IsValid() {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid activity frequency")
	}
	if patch.MaterialInterests != nil {
		for _, category := range *patch.MaterialInterests {
			if !category.IsValid() {
				return User{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid material category")
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return User{}, pkgerrors.New(pkgerrors.CodeNotFound, "no active session")
	}
	prefs := &s.user.Preferences
	if patch.ContributionFocus != nil {
		prefs.ContributionFocus = *patch.ContributionFocus
	}
	if patch.MaterialInterests != nil {
		prefs.MaterialInterests = *patch.MaterialInterests
	}
	if patch.Frequency != nil {
		prefs.Frequency = *patch.Frequency
	}
	if patch.Percentages != nil {
		prefs.Percentages = *patch.Percentages
	}
	if patch.EnvironmentGoals != nil {
		prefs.EnvironmentGoals = *patch.EnvironmentGoals
	}
	if patch.CompletedPreferences != nil {
		prefs.CompletedPreferences = *patch.CompletedPreferences
	}

	if err := s.persist(ctx); err != nil {
		return User{}, err
	}
	s.metrics.IncMutation("session", "update_preferences")
	return *s.user, nil
}

func (s *service) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, s.kv, storage.KeyUser, s.user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
	}
	return nil
}

func (s *service) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "login interrupted")
	case <-timer.C:
		return nil
	}
}

// demoUser is the deterministic profile every mocked login resolves to.
func demoUser(email string, now time.Time) User {
	return User{
		ID:       uuid.NewString(),
		Email:    email,
		Name:     localPart(email),
		UserType: enums.UserTypeSeller,
		Location: "San Francisco, CA",
		Rating:   4.8,
		Reviews:  45,
		ImpactStats: ImpactStats{
			ItemsRecycled: 1500,
			CO2SavedKG:    350,
			TreesSaved:    12,
		},
		CreatedAt: now,
	}
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
