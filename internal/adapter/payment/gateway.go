package payment

import (
	"context"
	"errors"
	"time"

	"artha-lending/internal/domain/payment"

	"github.com/google/uuid"
)

var ErrDeclined = errors.New("payment declined")

// StaticGateway simulates a collaborator that approves every transfer.
type StaticGateway struct{}

func (StaticGateway) Transfer(ctx context.Context, _ payment.Request) (payment.Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return payment.Confirmation{}, err
	}
	return payment.Confirmation{Reference: uuid.NewString(), Success: true}, nil
}

// DecliningGateway answers every transfer with success=false, or with Err
// when set (an unreachable collaborator).
type DecliningGateway struct {
	Err error
}

func (g DecliningGateway) Transfer(_ context.Context, _ payment.Request) (payment.Confirmation, error) {
	if g.Err != nil {
		return payment.Confirmation{}, g.Err
	}
	return payment.Confirmation{Reference: uuid.NewString(), Success: false}, nil
}

// WithTimeout bounds every Transfer made through next.
func WithTimeout(next payment.Gateway, d time.Duration) payment.Gateway {
	if d <= 0 {
		return next
	}
	return timeoutGateway{next: next, d: d}
}

type timeoutGateway struct {
	next payment.Gateway
	d    time.Duration
}

func (g timeoutGateway) Transfer(ctx context.Context, req payment.Request) (payment.Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, g.d)
	defer cancel()
	return g.next.Transfer(ctx, req)
}
