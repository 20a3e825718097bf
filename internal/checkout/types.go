package checkout

import (
	"github.com/ecocycle/ecocycle-backend/internal/orders"
	"github.com/ecocycle/ecocycle-backend/pkg/payment"
)

// Wizard steps, in order.
const (
	StepDelivery = 1
	StepPayment  = 2
	StepReview   = 3
)

// DialogState tracks the payment dialog lifecycle.
type DialogState string

const (
	DialogIdle       DialogState = "idle"
	DialogSubmitting DialogState = "submitting"
	DialogSuccess    DialogState = "success"
	DialogError      DialogState = "error"
)

// State is the wizard snapshot returned to the UI. It lives only in memory;
// a restart starts the wizard over.
type State struct {
	Step     int                    `json:"step"`
	Delivery orders.DeliveryDetails `json:"delivery"`
	Payment  payment.Details        `json:"payment"`
	Dialog   DialogState            `json:"dialog"`
	// LastError is the message behind a DialogError state, cleared on the
	// next submission attempt.
	LastError string `json:"last_error,omitempty"`
}

// Result is returned on successful submission.
type Result struct {
	Order orders.Order `json:"order"`
}
