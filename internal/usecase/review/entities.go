package review

import (
	"time"

	"artha-lending/internal/domain/loan"
)

// VerificationInput is the out-of-band review verdict.
type VerificationInput struct {
	LoanID     string
	Passed     bool
	ReviewerID string // 32-char hex
	Note       string
}

type ReviewDTO struct {
	LoanID     string     `json:"loan_id"`
	State      loan.State `json:"state"`
	Passed     bool       `json:"passed"`
	ReviewerID string     `json:"reviewer_id,omitempty"`
	Note       string     `json:"note,omitempty"`
	ReviewedAt time.Time  `json:"reviewed_at"`
}
