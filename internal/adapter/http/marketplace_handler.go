package http

import (
	"net/http"

	domainMarketplace "artha-lending/internal/domain/marketplace"
	"artha-lending/internal/usecase/marketplace"

	"github.com/labstack/echo/v4"
)

type MarketplaceHandler struct{ uc *marketplace.Usecase }

func NewMarketplaceHandler(uc *marketplace.Usecase) *MarketplaceHandler {
	return &MarketplaceHandler{uc: uc}
}

type listingsReq struct {
	Query    string `query:"q"        validate:"max=100"`
	Category string `query:"category" validate:"omitempty,category"`
}

func (h *MarketplaceHandler) List(c echo.Context) error {
	var req listingsReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	xs, err := h.uc.List(c.Request().Context(), domainMarketplace.Filter{
		Query:    req.Query,
		Category: domainMarketplace.Category(req.Category),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"count": len(xs), "listings": xs})
}
