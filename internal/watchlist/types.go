package watchlist

import "time"

// Item is a saved-listing snapshot. Quantity and price stay display strings
// because the watchlist never does arithmetic on them.
type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Quantity  string    `json:"quantity"`
	Location  string    `json:"location"`
	Price     string    `json:"price"`
	Image     string    `json:"image"`
	Seller    string    `json:"seller"`
	Condition string    `json:"condition"`
	AddedDate time.Time `json:"added_date"`
}
