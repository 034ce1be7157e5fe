package handler

import (
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// FuelIndexHandler handles fuel index price endpoints
type FuelIndexHandler struct {
	BaseHandler
	store      cache.FuelIndexStore
	defaultTTL time.Duration
}

// NewFuelIndexHandler creates a new FuelIndexHandler. defaultTTL bounds how
// long a published price stays valid when the request does not set one.
func NewFuelIndexHandler(store cache.FuelIndexStore, defaultTTL time.Duration) *FuelIndexHandler {
	return &FuelIndexHandler{
		store:      store,
		defaultTTL: defaultTTL,
	}
}

// SetFuelPriceRequest represents a request to publish the current fuel price
// @Description Request body for publishing the tenant's fuel index price
type SetFuelPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required" example:"1.85"`
	// TTLHours overrides the configured validity window when positive
	TTLHours int `json:"ttl_hours" binding:"omitempty,min=1" example:"48"`
}

// FuelPriceResponse is the API shape of the current fuel index price
type FuelPriceResponse struct {
	Price decimal.Decimal `json:"price"`
}

// Get godoc
// @Summary      Get the current fuel index price
// @Tags         fuel-index
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} dto.Response{data=FuelPriceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/fuel-index [get]
func (h *FuelIndexHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	price, err := h.store.CurrentPrice(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, FuelPriceResponse{Price: price})
}

// Set godoc
// @Summary      Publish the current fuel index price
// @Description  Stores the fuel price used by fuel-type surcharges at quote time
// @Tags         fuel-index
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body SetFuelPriceRequest true "Fuel price"
// @Success      200 {object} dto.Response{data=FuelPriceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/fuel-index [put]
func (h *FuelIndexHandler) Set(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req SetFuelPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ttl := h.defaultTTL
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}

	if err := h.store.SetPrice(c.Request.Context(), tenantID, req.Price, ttl); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, FuelPriceResponse{Price: req.Price})
}
