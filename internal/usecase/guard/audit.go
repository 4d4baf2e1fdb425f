package guard

import (
	"artha-lending/internal/domain/loan"

	"go.uber.org/zap"
)

// LogTransitions writes committed transitions at info. Call it after the
// transaction returns, never inside it.
func LogTransitions(log *zap.Logger, trs ...loan.Transition) {
	for _, tr := range trs {
		log.Info("loan transition",
			zap.String("loan_id", tr.LoanID),
			zap.String("from", string(tr.From)),
			zap.String("to", string(tr.To)),
			zap.String("event", string(tr.Action)),
			zap.String("actor_id", tr.ActorID),
			zap.Time("at", tr.OccurredAt),
		)
	}
}
