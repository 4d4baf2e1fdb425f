package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health      *Handler
	Users       *UserHandler
	Loans       *LoanHandler
	Review      *ReviewHandler
	Funding     *FundingHandler
	Repayments  *RepaymentHandler
	Collections *CollectionsHandler
	Marketplace *MarketplaceHandler
}

// RegisterRoutes mounts the API. mw wraps everything except /health; the
// idempotency middleware belongs there since it skips safe methods itself.
func RegisterRoutes(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	api := e.Group("", mw...)

	users := api.Group("/users")
	users.POST("", h.Users.Register)
	users.GET("/:user_id", h.Users.Get)
	users.PUT("/:user_id/kyc", h.Users.RecordKYC)
	users.PUT("/:user_id/bank-details", h.Users.SetBankDetails)
	users.PUT("/:user_id/credit-score", h.Users.SetCreditScore)
	users.GET("/:user_id/eligibility", h.Users.Eligibility)
	users.GET("/:user_id/portfolio", h.Users.Portfolio)

	loans := api.Group("/loans")
	loans.GET("/quote", h.Loans.Quote)
	loans.POST("", h.Loans.CreateLoan)
	loans.GET("/:loan_id", h.Loans.GetLoan)
	loans.GET("/:loan_id/schedule", h.Loans.Schedule)
	loans.GET("/:loan_id/events", h.Loans.Events)
	loans.POST("/:loan_id/legal-docs", h.Loans.AttachLegalDocs)
	loans.POST("/:loan_id/review", h.Loans.SubmitForReview)
	loans.POST("/:loan_id/verification", h.Review.RecordVerification)
	loans.POST("/:loan_id/withdraw", h.Loans.Withdraw)
	loans.POST("/:loan_id/fund", h.Funding.Fund)
	loans.GET("/:loan_id/fund-eligibility", h.Funding.Eligibility)
	loans.POST("/:loan_id/repayments", h.Repayments.Repay)
	loans.GET("/:loan_id/repayments", h.Repayments.History)
	loans.POST("/:loan_id/default", h.Collections.MarkDefault)

	api.GET("/collections/overdue", h.Collections.Overdue)
	api.GET("/marketplace", h.Marketplace.List)
}
