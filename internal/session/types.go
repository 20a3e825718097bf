package session

import (
	"time"

	"github.com/ecocycle/ecocycle-backend/pkg/enums"
)

// ImpactStats is the environmental contribution summary shown on the
// dashboard.
type ImpactStats struct {
	ItemsRecycled int `json:"items_recycled"`
	CO2SavedKG    int `json:"co2_saved_kg"`
	TreesSaved    int `json:"trees_saved"`
}

// Percentages splits the user's intended activity across the three
// contribution modes. Values are free-form ints; the onboarding form keeps
// them summing to 100 but the store does not enforce it.
type Percentages struct {
	Buying   int `json:"buying"`
	Selling  int `json:"selling"`
	Donating int `json:"donating"`
}

// Preferences holds the onboarding questionnaire answers.
type Preferences struct {
	ContributionFocus    enums.ContributionFocus  `json:"contribution_focus"`
	MaterialInterests    []enums.MaterialCategory `json:"material_interests"`
	Frequency            enums.ActivityFrequency  `json:"frequency"`
	Percentages          Percentages              `json:"percentages"`
	EnvironmentGoals     []string                 `json:"environment_goals"`
	CompletedPreferences bool                     `json:"completed_preferences"`
}

// User is the single mutable session record.
type User struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	UserType    enums.UserType `json:"user_type"`
	Company     string         `json:"company,omitempty"`
	Location    string         `json:"location,omitempty"`
	Bio         string         `json:"bio,omitempty"`
	Rating      float64        `json:"rating,omitempty"`
	Reviews     int            `json:"reviews,omitempty"`
	ImpactStats ImpactStats    `json:"impact_stats"`
	Preferences Preferences    `json:"preferences"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ProfilePatch merges non-nil fields into the session user.
type ProfilePatch struct {
	Name     *string         `json:"name,omitempty"`
	UserType *enums.UserType `json:"user_type,omitempty"`
	Company  *string         `json:"company,omitempty"`
	Location *string         `json:"location,omitempty"`
	Bio      *string         `json:"bio,omitempty"`
}

// PreferencesPatch merges non-nil fields into the onboarding preferences.
type PreferencesPatch struct {
	ContributionFocus    *enums.ContributionFocus  `json:"contribution_focus,omitempty"`
	MaterialInterests    *[]enums.MaterialCategory `json:"material_interests,omitempty"`
	Frequency            *enums.ActivityFrequency  `json:"frequency,omitempty"`
	Percentages          *Percentages              `json:"percentages,omitempty"`
	EnvironmentGoals     *[]string                 `json:"environment_goals,omitempty"`
	CompletedPreferences *bool                     `json:"completed_preferences,omitempty"`
}
