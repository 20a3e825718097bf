package catalog

import (
	"time"

	"github.com/ecocycle/ecocycle-backend/pkg/enums"
)

// SellerInfo is the contact/rating block denormalized onto each listing.
type SellerInfo struct {
	Name    string  `json:"name"`
	Company string  `json:"company"`
	Phone   string  `json:"phone"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	ZipCode string  `json:"zip_code"`
	Rating  float64 `json:"rating"`
	Reviews int     `json:"reviews"`
}

// Product is a seller-submitted material listing. SellerID is a loose
// string reference; nothing enforces it against the session store.
type Product struct {
	ID             string                 `json:"id"`
	SellerID       string                 `json:"seller_id"`
	Title          string                 `json:"title"`
	Category       enums.MaterialCategory `json:"category"`
	Quantity       string                 `json:"quantity"`
	Location       string                 `json:"location"`
	Price          string                 `json:"price"`
	ListingType    enums.ListingType      `json:"listing_type"`
	Condition      string                 `json:"condition"`
	Description    string                 `json:"description"`
	Specifications []string               `json:"specifications"`
	Images         []string               `json:"images"`
	MinimumOrder   string                 `json:"minimum_order"`
	LeadTime       string                 `json:"lead_time"`
	Certifications []string               `json:"certifications"`
	CreatedAt      time.Time              `json:"created_at"`
	Seller         SellerInfo             `json:"seller"`
}

// NewProductInput carries everything a listing needs except the id and
// creation timestamp, which the store assigns.
type NewProductInput struct {
	SellerID       string                 `json:"seller_id"`
	Title          string                 `json:"title"`
	Category       enums.MaterialCategory `json:"category"`
	Quantity       string                 `json:"quantity"`
	Location       string                 `json:"location"`
	Price          string                 `json:"price"`
	ListingType    enums.ListingType      `json:"listing_type"`
	Condition      string                 `json:"condition"`
	Description    string                 `json:"description"`
	Specifications []string               `json:"specifications"`
	Images         []string               `json:"images"`
	MinimumOrder   string                 `json:"minimum_order"`
	LeadTime       string                 `json:"lead_time"`
	Certifications []string               `json:"certifications"`
	Seller         SellerInfo             `json:"seller"`
}

// ProductPatch merges non-nil fields into an existing listing.
type ProductPatch struct {
	Title          *string                 `json:"title,omitempty"`
	Category       *enums.MaterialCategory `json:"category,omitempty"`
	Quantity       *string                 `json:"quantity,omitempty"`
	Location       *string                 `json:"location,omitempty"`
	Price          *string                 `json:"price,omitempty"`
	ListingType    *enums.ListingType      `json:"listing_type,omitempty"`
	Condition      *string                 `json:"condition,omitempty"`
	Description    *string                 `json:"description,omitempty"`
	Specifications *[]string               `json:"specifications,omitempty"`
	Images         *[]string               `json:"images,omitempty"`
	MinimumOrder   *string                 `json:"minimum_order,omitempty"`
	LeadTime       *string                 `json:"lead_time,omitempty"`
	Certifications *[]string               `json:"certifications,omitempty"`
	Seller         *SellerInfo             `json:"seller,omitempty"`
}
