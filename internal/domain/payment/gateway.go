package payment

import "context"

type Purpose string

const (
	PurposeFunding   Purpose = "funding"
	PurposeRepayment Purpose = "repayment"
)

type Request struct {
	LoanID  string
	PayerID string
	PayeeID string
	Amount  int64
	Purpose Purpose
}

// Confirmation is the collaborator's verdict. Success=false is a hard failure.
type Confirmation struct {
	Reference string
	Success   bool
}

// Gateway moves money outside the engine.
type Gateway interface {
	Transfer(ctx context.Context, req Request) (Confirmation, error)
}
