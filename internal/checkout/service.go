package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ecocycle/ecocycle-backend/internal/cart"
	"github.com/ecocycle/ecocycle-backend/internal/orders"
	"github.com/ecocycle/ecocycle-backend/internal/settlement"
	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/ecocycle/ecocycle-backend/pkg/metrics"
	"github.com/ecocycle/ecocycle-backend/pkg/payment"
)

// ServiceParams groups dependencies for the checkout wizard.
type ServiceParams struct {
	Cart    cart.Service
	Orders  orders.Service
	Settler settlement.Settler
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
	Now     func() time.Time
}

// Service drives the three-step checkout wizard over the cart contents.
// Submission is atomic at this layer: validation and settlement either
// produce a confirmed order with a cleared cart, or leave everything as it
// was.
type Service interface {
	State(ctx context.Context) State
	Continue(ctx context.Context) State
	Back(ctx context.Context) State
	SetDelivery(ctx context.Context, details orders.DeliveryDetails) (State, error)
	SetPayment(ctx context.Context, details payment.Details) (State, error)
	Submit(ctx context.Context) (Result, error)
	Reset(ctx context.Context) State
}

type service struct {
	cart    cart.Service
	orders  orders.Service
	settler settlement.Settler
	logg    *logger.Logger
	metrics *metrics.StoreMetrics
	now     func() time.Time

	mu    sync.Mutex
	state State
}

func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout needs a cart service")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout needs an order service")
	}
	if params.Settler == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout needs a settler")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		cart:    params.Cart,
		orders:  params.Orders,
		settler: params.Settler,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     params.Now,
		state:   freshState(),
	}, nil
}

func freshState() State {
	return State{Step: StepDelivery, Dialog: DialogIdle}
}

func (s *service) State(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Continue advances one step and stops at the review step.
func (s *service) Continue(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Step < StepReview {
		s.state.Step++
	}
	return s.state
}

// Back goes one step back and stops at the delivery step.
func (s *service) Back(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Step > StepDelivery {
		s.state.Step--
	}
	return s.state
}

// SetDelivery stores the step-one form. All fields are required.
func (s *service) SetDelivery(ctx context.Context, details orders.DeliveryDetails) (State, error) {
	for _, field := range []string{
		details.FullName, details.Email, details.Phone,
		details.Address, details.City, details.State, details.ZipCode,
	} {
		if strings.TrimSpace(field) == "" {
			return State{}, pkgerrors.New(pkgerrors.CodeValidation, "Please fill in all required fields")
		}
	}
	if !details.DeliveryType.IsValid() {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Delivery = details
	return s.state, nil
}

// SetPayment stores the step-two form. Field validation is deferred to
// Submit, matching the form behavior of validating only on submission.
func (s *service) SetPayment(ctx context.Context, details payment.Details) (State, error) {
	if !details.Method.IsValid() {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Payment = details
	return s.state, nil
}

// Submit validates the payment details, settles, records the order, and
// clears the cart. A submission already in flight is rejected.
func (s *service) Submit(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.state.Dialog == DialogSubmitting {
		s.mu.Unlock()
		return Result{}, pkgerrors.New(pkgerrors.CodeConflict, "a submission is already in progress")
	}
	s.state.Dialog = DialogSubmitting
	s.state.LastError = ""
	delivery := s.state.Delivery
	details := s.state.Payment
	s.mu.Unlock()

	result, err := s.submit(ctx, delivery, details)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.Dialog = DialogError
		s.state.LastError = publicMessage(err)
		return Result{}, err
	}
	s.state = freshState()
	s.state.Dialog = DialogSuccess
	return result, nil
}

func (s *service) submit(ctx context.Context, delivery orders.DeliveryDetails, details payment.Details) (Result, error) {
	snapshot, err := s.cart.Get(ctx)
	if err != nil {
		return Result{}, err
	}
	if len(snapshot.Items) == 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "Your cart is empty")
	}
	if err := payment.Validate(details, s.now()); err != nil {
		return Result{}, err
	}

	started := time.Now()
	receipt, err := s.settler.Settle(ctx, details.Method, snapshot.Totals.Total)
	s.metrics.ObserveSettlement(time.Since(started))
	if err != nil {
		return Result{}, err
	}

	order, err := s.orders.Record(ctx, orders.NewOrderInput{
		Items:            snapshot.Items,
		Delivery:         delivery,
		PaymentMethod:    details.Method,
		PaymentReference: receipt.Reference,
		Subtotal:         snapshot.Totals.Subtotal,
		Tax:              snapshot.Totals.Tax,
		Total:            snapshot.Totals.Total,
	})
	if err != nil {
		return Result{}, err
	}
	if err := s.cart.Clear(ctx); err != nil {
		return Result{}, err
	}
	s.metrics.IncOrderPlaced()
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID), "order confirmed")
	}
	return Result{Order: order}, nil
}

// Reset starts the wizard over, as when the user abandons checkout.
func (s *service) Reset(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = freshState()
	return s.state
}

func publicMessage(err error) string {
	if coded := pkgerrors.As(err); coded != nil {
		return coded.Message()
	}
	return "Something went wrong. Please try again"
}
