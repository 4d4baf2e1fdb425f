package loan

import (
	"fmt"
	"time"

	"artha-lending/internal/domain/apperr"
)

type State string

const (
	StateDraft             State = "DRAFT"
	StateAwaitingSignature State = "AWAITING_SIGNATURE"
	StateUnderReview       State = "UNDER_REVIEW"
	StateListed            State = "LISTED"
	StateFunded            State = "FUNDED"
	StateActive            State = "ACTIVE"
	StateClosed            State = "CLOSED"
	StateWithdrawn         State = "WITHDRAWN"
	StateDefaulted         State = "DEFAULTED"
)

func (s State) Terminal() bool {
	return s == StateClosed || s == StateWithdrawn || s == StateDefaulted
}

// Committed reports whether the loan holds the borrower role: past DRAFT and not yet terminal.
func (s State) Committed() bool { return s != StateDraft && s != "" && !s.Terminal() }

// Invested reports whether a lender's money is out on this loan.
func (s State) Invested() bool { return s == StateFunded || s == StateActive }

// Action is a lifecycle trigger.
type Action string

const (
	ActionCreate             Action = "create"
	ActionAttachLegalDocs    Action = "attach_legal_docs"
	ActionSubmitForReview    Action = "submit_for_review"
	ActionVerificationPassed Action = "verification_passed"
	ActionVerificationFailed Action = "verification_failed"
	ActionFund               Action = "fund"
	ActionDisburse           Action = "disburse"
	ActionRepay              Action = "repay"
	ActionWithdraw           Action = "withdraw"
	ActionDefault            Action = "default"
)

var transitions = map[State]map[Action]State{
	StateDraft: {
		ActionAttachLegalDocs: StateAwaitingSignature,
		ActionWithdraw:        StateWithdrawn,
	},
	StateAwaitingSignature: {
		ActionSubmitForReview:    StateUnderReview,
		ActionVerificationPassed: StateListed,
		ActionVerificationFailed: StateWithdrawn,
		ActionWithdraw:           StateWithdrawn,
	},
	StateUnderReview: {
		ActionVerificationPassed: StateListed,
		ActionVerificationFailed: StateWithdrawn,
		ActionWithdraw:           StateWithdrawn,
	},
	StateListed: {
		ActionFund:     StateFunded,
		ActionWithdraw: StateWithdrawn,
	},
	StateFunded: {
		ActionDisburse: StateActive,
	},
	StateActive: {
		ActionRepay:   StateActive,
		ActionDefault: StateDefaulted,
	},
}

// Can reports whether action is legal from s.
func (s State) Can(a Action) bool {
	_, ok := transitions[s][a]
	return ok
}

// Transition is one audited state change.
type Transition struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string    `gorm:"size:32;index:idx_loan_transitions_loan" json:"loan_id"`
	From       State     `gorm:"column:from_state;size:24" json:"from"`
	To         State     `gorm:"column:to_state;size:24" json:"to"`
	Action     Action    `gorm:"size:32" json:"action"`
	ActorID    string    `gorm:"size:32" json:"actor_id,omitempty"`
	Note       string    `gorm:"size:255" json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (Transition) TableName() string { return "loan_transitions" }

func (l *Loan) apply(a Action, at time.Time) (Transition, error) {
	to, ok := transitions[l.State][a]
	if !ok {
		return Transition{}, fmt.Errorf("%w: cannot %s a %s loan", ErrInvalidTransition, a, l.State)
	}
	tr := Transition{LoanID: l.LoanID, From: l.State, To: to, Action: a, OccurredAt: at}
	l.State = to
	l.StateUpdatedAt = at
	l.UpdatedAt = at
	return tr, nil
}

func (l *Loan) AttachLegalDocs(signedAgreementRef, videoStatementRef string, at time.Time) (Transition, error) {
	if signedAgreementRef == "" || videoStatementRef == "" {
		return Transition{}, apperr.Validation("signed agreement and video statement references are both required")
	}
	tr, err := l.apply(ActionAttachLegalDocs, at)
	if err != nil {
		return tr, err
	}
	l.SignedAgreementRef = signedAgreementRef
	l.VideoStatementRef = videoStatementRef
	return tr, nil
}

func (l *Loan) SubmitForReview(at time.Time) (Transition, error) {
	return l.apply(ActionSubmitForReview, at)
}

func (l *Loan) PassVerification(at time.Time) (Transition, error) {
	tr, err := l.apply(ActionVerificationPassed, at)
	if err != nil {
		return tr, err
	}
	l.ListedAt = &at
	return tr, nil
}

func (l *Loan) FailVerification(note string, at time.Time) (Transition, error) {
	tr, err := l.apply(ActionVerificationFailed, at)
	if err != nil {
		return tr, err
	}
	l.StateNote = note
	l.ClosedAt = &at
	tr.Note = note
	return tr, nil
}

// Fund accepts full-principal funding only.
func (l *Loan) Fund(lenderID string, amount int64, at time.Time) (Transition, error) {
	if !l.State.Can(ActionFund) {
		return l.apply(ActionFund, at)
	}
	if amount != l.Principal {
		return Transition{}, apperr.Validation("funding amount %d must equal principal %d; partial funding is not supported", amount, l.Principal)
	}
	tr, err := l.apply(ActionFund, at)
	if err != nil {
		return tr, err
	}
	l.LenderID = lenderID
	l.FundedAmount = amount
	l.FundedAt = &at
	tr.ActorID = lenderID
	return tr, nil
}

func (l *Loan) Disburse(at time.Time) (Transition, error) {
	tr, err := l.apply(ActionDisburse, at)
	if err != nil {
		return tr, err
	}
	l.DisbursedAt = &at
	return tr, nil
}

// RecordInstallment advances paidEmiCount by one; installments are strictly sequential.
// The loan closes when the last installment lands.
func (l *Loan) RecordInstallment(index int, at time.Time) (Transition, error) {
	if !l.State.Can(ActionRepay) {
		return l.apply(ActionRepay, at)
	}
	if index != l.PaidEMICount {
		return Transition{}, apperr.Validation("installment %d is not payable; next installment is %d", index, l.PaidEMICount)
	}
	if l.PaidEMICount >= l.TenureMonths {
		return Transition{}, apperr.Validation("all %d installments are already paid", l.TenureMonths)
	}
	tr, err := l.apply(ActionRepay, at)
	if err != nil {
		return tr, err
	}
	l.PaidEMICount++
	if l.PaidEMICount == l.TenureMonths {
		l.State = StateClosed
		l.ClosedAt = &at
		tr.To = StateClosed
	}
	tr.Note = fmt.Sprintf("installment %d/%d", index+1, l.TenureMonths)
	return tr, nil
}

func (l *Loan) Withdraw(actorID, note string, at time.Time) (Transition, error) {
	if actorID != l.BorrowerID {
		return Transition{}, ErrNotBorrower
	}
	tr, err := l.apply(ActionWithdraw, at)
	if err != nil {
		return tr, err
	}
	l.StateNote = note
	l.ClosedAt = &at
	tr.ActorID = actorID
	tr.Note = note
	return tr, nil
}

func (l *Loan) MarkDefaulted(note string, at time.Time) (Transition, error) {
	tr, err := l.apply(ActionDefault, at)
	if err != nil {
		return tr, err
	}
	l.StateNote = note
	l.ClosedAt = &at
	tr.Note = note
	return tr, nil
}
