package orders

import (
	"time"

	"github.com/ecocycle/ecocycle-backend/internal/cart"
	"github.com/ecocycle/ecocycle-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// StatusConfirmed is the only status a mocked settlement produces.
const StatusConfirmed = "confirmed"

// DeliveryDetails is the step-one form of the checkout wizard.
type DeliveryDetails struct {
	FullName     string             `json:"full_name"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address"`
	City         string             `json:"city"`
	State        string             `json:"state"`
	ZipCode      string             `json:"zip_code"`
	DeliveryType enums.DeliveryType `json:"delivery_type"`
}

// RatingAspects are the seller qualities a buyer can call out when rating a
// delivered order.
var RatingAspects = []string{"Quality", "Communication", "Shipping Speed", "Packaging", "Accuracy"}

// MaxReviewLength caps the free-text review on a rating.
const MaxReviewLength = 500

// OrderRating is the buyer's one-shot feedback on a completed order.
type OrderRating struct {
	Stars   int       `json:"stars"`
	Aspects []string  `json:"aspects,omitempty"`
	Review  string    `json:"review,omitempty"`
	RatedAt time.Time `json:"rated_at"`
}

// RatingInput carries the buyer's feedback form.
type RatingInput struct {
	Stars   int      `json:"stars" validate:"required,min=1,max=5"`
	Aspects []string `json:"aspects" validate:"omitempty,dive,required"`
	Review  string   `json:"review" validate:"omitempty,max=500"`
}

// Order snapshots the cart at settlement time. Later catalog or cart edits
// never touch a recorded order.
type Order struct {
	ID               string              `json:"id"`
	Items            []cart.LineItem     `json:"items"`
	Delivery         DeliveryDetails     `json:"delivery"`
	PaymentMethod    enums.PaymentMethod `json:"payment_method"`
	PaymentReference string              `json:"payment_reference"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Tax              decimal.Decimal     `json:"tax"`
	Total            decimal.Decimal     `json:"total"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"created_at"`
	Rating           *OrderRating        `json:"rating,omitempty"`
}

// NewOrderInput carries everything checkout knows at settlement time; the
// store assigns the id, status, and timestamp.
type NewOrderInput struct {
	Items            []cart.LineItem
	Delivery         DeliveryDetails
	PaymentMethod    enums.PaymentMethod
	PaymentReference string
	Subtotal         decimal.Decimal
	Tax              decimal.Decimal
	Total            decimal.Decimal
}
