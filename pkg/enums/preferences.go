package enums

import "fmt"

// ContributionFocus is the onboarding answer for how a user wants to participate.
type ContributionFocus string

const (
	ContributionFocusBuying   ContributionFocus = "buying"
	ContributionFocusSelling  ContributionFocus = "selling"
	ContributionFocusDonating ContributionFocus = "donating"
	ContributionFocusBalanced ContributionFocus = "balanced"
)

var validContributionFocuses = []ContributionFocus{
	ContributionFocusBuying,
	ContributionFocusSelling,
	ContributionFocusDonating,
	ContributionFocusBalanced,
}

// String implements fmt.Stringer.
func (c ContributionFocus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContributionFocus.
func (c ContributionFocus) IsValid() bool {
	for _, candidate := range validContributionFocuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContributionFocus converts raw input into a ContributionFocus.
func ParseContributionFocus(value string) (ContributionFocus, error) {
	for _, candidate := range validContributionFocuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contribution focus %q", value)
}

// ActivityFrequency is the onboarding answer for how often a user expects to trade.
type ActivityFrequency string

const (
	ActivityFrequencyOccasional ActivityFrequency = "occasional"
	ActivityFrequencyRegular    ActivityFrequency = "regular"
	ActivityFrequencyFrequent   ActivityFrequency = "frequent"
)

var validActivityFrequencies = []ActivityFrequency{
	ActivityFrequencyOccasional,
	ActivityFrequencyRegular,
	ActivityFrequencyFrequent,
}

// String implements fmt.Stringer.
func (f ActivityFrequency) String() string {
	return string(f)
}

// IsValid reports whether the value is a known ActivityFrequency.
func (f ActivityFrequency) IsValid() bool {
	for _, candidate := range validActivityFrequencies {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseActivityFrequency converts raw input into an ActivityFrequency.
func ParseActivityFrequency(value string) (ActivityFrequency, error) {
	for _, candidate := range validActivityFrequencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity frequency %q", value)
}
