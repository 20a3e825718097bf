package cart

import (
	"github.com/ecocycle/ecocycle-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// LineItem is a listing snapshot plus a chosen quantity. Catalog edits made
// after the add never reach items already in the cart.
type LineItem struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Category    enums.MaterialCategory `json:"category"`
	Quantity    int                    `json:"quantity"`
	Unit        string                 `json:"unit"`
	UnitPrice   decimal.Decimal        `json:"unit_price"`
	SellerName  string                 `json:"seller_name"`
	TotalPrice  decimal.Decimal        `json:"total_price"`
	ListingType enums.ListingType      `json:"listing_type"`
}

// Totals are derived from the current items on every read.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// DTO is the full cart view returned to callers.
type DTO struct {
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}
