package handler

import (
	tariffapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/tariff"
	"github.com/gin-gonic/gin"
)

// QuoteHandler handles quote composition endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *tariffapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *tariffapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// Compose godoc
// @Summary      Compose a quote for a shipment
// @Description  Selects the applicable tariff term, applies surcharges and pricing rules, and returns the priced quote with its audit breakdown
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body tariff.QuoteRequest true "Shipment parameters"
// @Success      200 {object} dto.Response{data=tariff.QuoteResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/quotes [post]
func (h *QuoteHandler) Compose(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req tariffapp.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.Quote(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quote)
}
