package settlement

import (
	"context"
	"math/rand"
	"time"

	"github.com/ecocycle/ecocycle-backend/pkg/enums"
	pkgerrors "github.com/ecocycle/ecocycle-backend/pkg/errors"
	"github.com/ecocycle/ecocycle-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the settlement confirmation handed back to checkout.
type Receipt struct {
	Reference string    `json:"reference"`
	SettledAt time.Time `json:"settled_at"`
}

// Settler resolves a payment after some delay. Implementations decide the
// delay and the failure policy so tests can run instantly and
// deterministically.
type Settler interface {
	Settle(ctx context.Context, method enums.PaymentMethod, amount decimal.Decimal) (Receipt, error)
}

// SimulatorParams configures the mock settlement gateway.
type SimulatorParams struct {
	Logger *logger.Logger
	// Delay is how long a settlement takes end to end.
	Delay time.Duration
	// FailureRate in [0,1] is the probability a settlement is declined.
	// Zero keeps the historical always-succeeds behavior.
	FailureRate float64
	Now         func() time.Time
	// Rand drives the failure roll; defaults to the global source.
	Rand func() float64
}

// Simulator is a timed fake gateway: waits Delay, rolls the failure hook,
// and issues a receipt.
type Simulator struct {
	logg        *logger.Logger
	delay       time.Duration
	failureRate float64
	now         func() time.Time
	rand        func() float64
}

func NewSimulator(params SimulatorParams) *Simulator {
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Rand == nil {
		params.Rand = rand.Float64
	}
	return &Simulator{
		logg:        params.Logger,
		delay:       params.Delay,
		failureRate: params.FailureRate,
		now:         params.Now,
		rand:        params.Rand,
	}
}

func (s *Simulator) Settle(ctx context.Context, method enums.PaymentMethod, amount decimal.Decimal) (Receipt, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "settlement interrupted")
		case <-timer.C:
		}
	}

	if s.failureRate > 0 && s.rand() < s.failureRate {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "payment_method", method.String()), "settlement declined")
		}
		return Receipt{}, pkgerrors.New(pkgerrors.CodePayment, "Payment could not be processed. Please try again")
	}

	receipt := Receipt{
		Reference: uuid.NewString(),
		SettledAt: s.now().UTC(),
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "payment_method", method.String()), "settlement confirmed")
	}
	return receipt, nil
}
