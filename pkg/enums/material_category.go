package enums

import "fmt"

// MaterialCategory represents the canonical material categories supported by the catalog.
type MaterialCategory string

const (
	MaterialCategoryPlastics    MaterialCategory = "Plastics"
	MaterialCategoryTextiles    MaterialCategory = "Textiles"
	MaterialCategoryElectronics MaterialCategory = "Electronics"
	MaterialCategoryWood        MaterialCategory = "Wood"
)

var validMaterialCategories = []MaterialCategory{
	MaterialCategoryPlastics,
	MaterialCategoryTextiles,
	MaterialCategoryElectronics,
	MaterialCategoryWood,
}

// String implements fmt.Stringer.
func (c MaterialCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known MaterialCategory.
func (c MaterialCategory) IsValid() bool {
	for _, candidate := range validMaterialCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseMaterialCategory converts raw input into a MaterialCategory.
func ParseMaterialCategory(value string) (MaterialCategory, error) {
	for _, candidate := range validMaterialCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material category %q", value)
}
