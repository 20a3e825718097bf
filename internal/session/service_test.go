package session

import (
	"context"
	"testing"
	"time"

	"github.com/ecocycle/ecocycle-backend/pkg/enums"
	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
	"github.com/ecocycle/ecocycle-backend/pkg/storage"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, kv storage.KV) Service {
	t.Helper()
	svc, err := NewService(context.Background(), ServiceParams{
		KV:  kv,
		Now: func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("new session service: %v", err)
	}
	return svc
}

func TestLoginInstallsDemoProfile(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemory())

	user, err := svc.Login(ctx, "maya@ecocycle.io", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Name != "maya" {
		t.Fatalf("expected name from email localpart, got %q", user.Name)
	}
	if user.UserType != enums.UserTypeSeller {
		t.Fatalf("expected demo seller profile, got %q", user.UserType)
	}
	if user.Location != "San Francisco, CA" || user.Rating != 4.8 || user.Reviews != 45 {
		t.Fatalf("unexpected demo profile: %+v", user)
	}
	if user.ImpactStats != (ImpactStats{ItemsRecycled: 1500, CO2SavedKG: 350, TreesSaved: 12}) {
		t.Fatalf("unexpected impact stats: %+v", user.ImpactStats)
	}

	current, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.ID != user.ID {
		t.Fatal("current session does not match login result")
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	svc := newTestService(t, storage.NewMemory())

	for _, tc := range []struct{ email, password string }{
		{"", "secret"},
		{"maya@ecocycle.io", ""},
		{"  ", "  "},
	} {
		_, err := svc.Login(context.Background(), tc.email, tc.password)
		if err == nil {
			t.Fatalf("expected error for %q/%q", tc.email, tc.password)
		}
		coded := pkgerrors.As(err)
		if coded == nil || coded.Message() != "Email and password required" {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestSignupStartsWithZeroImpact(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemory())

	user, err := svc.Signup(ctx, SignupInput{
		Email:    "new@ecocycle.io",
		Password: "secret",
		Name:     "New Seller",
		UserType: enums.UserTypeArtisan,
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ImpactStats != (ImpactStats{}) {
		t.Fatalf("expected zero impact stats, got %+v", user.ImpactStats)
	}
	if user.UserType != enums.UserTypeArtisan {
		t.Fatalf("expected artisan, got %q", user.UserType)
	}
}

func TestCurrentWithoutSession(t *testing.T) {
	svc := newTestService(t, storage.NewMemory())

	_, err := svc.Current(context.Background())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	svc := newTestService(t, kv)

	if _, err := svc.Login(ctx, "maya@ecocycle.io", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Current(ctx); err == nil {
		t.Fatal("expected no session after logout")
	}
	if _, found, _ := kv.Get(ctx, storage.KeyUser); found {
		t.Fatal("expected persisted session removed")
	}
}

func TestUpdateProfileMergesPatch(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemory())

	if _, err := svc.Login(ctx, "maya@ecocycle.io", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	company := "Bay Area Reclaim"
	bio := "Sourcing reclaimed wood since 2019."
	user, err := svc.UpdateProfile(ctx, ProfilePatch{Company: &company, Bio: &bio})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.Company != company || user.Bio != bio {
		t.Fatalf("patch not applied: %+v", user)
	}
	if user.Name != "maya" {
		t.Fatalf("untouched field changed: %q", user.Name)
	}
}

func TestUpdatePreferences(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, storage.NewMemory())

	if _, err := svc.Login(ctx, "maya@ecocycle.io", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	focus := enums.ContributionFocusSelling
	interests := []enums.MaterialCategory{enums.MaterialCategoryWood, enums.MaterialCategoryTextiles}
	done := true
	user, err := svc.UpdatePreferences(ctx, PreferencesPatch{
		ContributionFocus:    &focus,
		MaterialInterests:    &interests,
		CompletedPreferences: &done,
	})
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if user.Preferences.ContributionFocus != focus || !user.Preferences.CompletedPreferences {
		t.Fatalf("patch not applied: %+v", user.Preferences)
	}
	if len(user.Preferences.MaterialInterests) != 2 {
		t.Fatalf("unexpected interests: %+v", user.Preferences.MaterialInterests)
	}

	badFocus := enums.ContributionFocus("hoarding")
	if _, err := svc.UpdatePreferences(ctx, PreferencesPatch{ContributionFocus: &badFocus}); err == nil {
		t.Fatal("expected validation error for unknown focus")
	}
}

func TestSessionPersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	first := newTestService(t, kv)
	user, err := first.Login(ctx, "maya@ecocycle.io", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	second := newTestService(t, kv)
	current, err := second.Current(ctx)
	if err != nil {
		t.Fatalf("expected persisted session: %v", err)
	}
	if current.ID != user.ID {
		t.Fatal("persisted session mismatch")
	}
}

func TestCorruptPersistedSessionStartsSignedOut(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	if err := kv.Set(ctx, storage.KeyUser, []byte("{nope")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := newTestService(t, kv)
	if _, err := svc.Current(ctx); err == nil {
		t.Fatal("expected signed-out session after corrupt state")
	}
}
