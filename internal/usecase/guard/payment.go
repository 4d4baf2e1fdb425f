package guard

import (
	"context"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/payment"

	"go.uber.org/zap"
)

// Pay runs one transfer through the collaborator. A declined or failed
// transfer comes back as an UpstreamFailure so the caller's transaction rolls back.
func Pay(ctx context.Context, gw payment.Gateway, log *zap.Logger, req payment.Request) (string, error) {
	c, err := gw.Transfer(ctx, req)
	if err != nil {
		log.Warn("payment collaborator failed", zap.String("loan_id", req.LoanID), zap.String("purpose", string(req.Purpose)), zap.Error(err))
		return "", apperr.Upstream("payment collaborator unavailable", err)
	}
	if !c.Success {
		log.Warn("payment declined", zap.String("loan_id", req.LoanID), zap.String("purpose", string(req.Purpose)), zap.String("reference", c.Reference))
		return "", apperr.Upstream("payment declined", nil)
	}
	return c.Reference, nil
}
