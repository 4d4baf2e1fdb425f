package marketplace

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/user"
)

type Category string

const (
	CategoryAgriculture Category = "Agriculture"
	CategoryBusiness    Category = "Business"
	CategoryEducation   Category = "Education"
	CategoryPersonal    Category = "Personal"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAgriculture, CategoryBusiness, CategoryEducation, CategoryPersonal:
		return true
	}
	return false
}

var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryBusiness, []string{"business", "shop", "inventory", "startup"}},
	{CategoryAgriculture, []string{"agricultur", "farm", "seed", "fertilizer"}},
	{CategoryEducation, []string{"student", "fee", "tuition", "education"}},
}

// InferCategory maps free-text purpose to a category by keyword, first match wins.
func InferCategory(purpose string) Category {
	p := strings.ToLower(purpose)
	for _, ck := range categoryKeywords {
		for _, w := range ck.words {
			if strings.Contains(p, w) {
				return ck.category
			}
		}
	}
	return CategoryPersonal
}

const TierUnrated = "N/A"

func RiskTier(score *int) string {
	if score == nil {
		return TierUnrated
	}
	switch s := *score; {
	case s >= 750:
		return "A+"
	case s >= 700:
		return "A"
	case s >= 650:
		return "B"
	case s >= 600:
		return "C"
	default:
		return "D"
	}
}

type Listing struct {
	LoanID             string          `json:"loan_id"`
	BorrowerID         string          `json:"borrower_id"`
	BorrowerName       string          `json:"borrower_name"`
	Principal          int64           `json:"principal"`
	Purpose            string          `json:"purpose"`
	Category           Category        `json:"category"`
	InterestRateAnnual decimal.Decimal `json:"interest_rate_annual"`
	TenureMonths       int             `json:"tenure_months"`
	EMIAmount          int64           `json:"emi_amount"`
	CreditScore        *int            `json:"credit_score,omitempty"`
	RiskTier           string          `json:"risk_tier"`
	HasGuarantor       bool            `json:"has_guarantor"`
	ListedAt           time.Time       `json:"listed_at"`
}

// Build turns LISTED loans into listings, newest first. Borrowers missing from
// users are shown unrated rather than dropped.
func Build(loans []loan.Loan, users map[string]user.User) []Listing {
	out := make([]Listing, 0, len(loans))
	for _, l := range loans {
		if l.State != loan.StateListed {
			continue
		}
		x := Listing{
			LoanID:             l.LoanID,
			BorrowerID:         l.BorrowerID,
			Principal:          l.Principal,
			Purpose:            l.Purpose,
			Category:           InferCategory(l.Purpose),
			InterestRateAnnual: l.InterestRateAnnual,
			TenureMonths:       l.TenureMonths,
			EMIAmount:          l.EMIAmount,
			RiskTier:           TierUnrated,
			HasGuarantor:       l.Guarantor.Present(),
			ListedAt:           l.StateUpdatedAt,
		}
		if l.ListedAt != nil {
			x.ListedAt = *l.ListedAt
		}
		if u, ok := users[l.BorrowerID]; ok {
			x.BorrowerName = u.DisplayName
			x.CreditScore = u.CreditScore
			x.RiskTier = RiskTier(u.CreditScore)
		}
		out = append(out, x)
	}
	slices.SortFunc(out, func(a, b Listing) int {
		if c := b.ListedAt.Compare(a.ListedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.LoanID, b.LoanID)
	})
	return out
}

type Filter struct {
	Query    string
	Category Category
}

func (f Filter) Match(x Listing) bool {
	if f.Category != "" && x.Category != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(x.Purpose), q) || strings.Contains(strings.ToLower(x.BorrowerName), q)
}

func (f Filter) Apply(xs []Listing) []Listing {
	out := make([]Listing, 0, len(xs))
	for _, x := range xs {
		if f.Match(x) {
			out = append(out, x)
		}
	}
	return out
}
