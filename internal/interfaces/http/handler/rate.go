package handler

import (
	"strconv"

	tariffapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/tariff"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RateHandler handles rate and contract-line authoring endpoints
type RateHandler struct {
	BaseHandler
	rateService *tariffapp.RateService
}

// NewRateHandler creates a new RateHandler
func NewRateHandler(rateService *tariffapp.RateService) *RateHandler {
	return &RateHandler{
		rateService: rateService,
	}
}

// Create godoc
// @Summary      Create a general rate
// @Description  Creates a rate with its pricing term, validated at authoring time
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body tariff.CreateRateRequest true "Rate creation request"
// @Success      201 {object} dto.Response{data=tariff.RateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/rates [post]
func (h *RateHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req tariffapp.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rate, err := h.rateService.CreateRate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, rate)
}

// Get godoc
// @Summary      Get a rate by ID
// @Tags         rates
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Rate ID"
// @Success      200 {object} dto.Response{data=tariff.RateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/rates/{id} [get]
func (h *RateHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rate ID format")
		return
	}

	rate, err := h.rateService.GetRate(c.Request.Context(), tenantID, rateID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rate)
}

// List godoc
// @Summary      List rates
// @Description  Lists rates with optional transport mode, carrier and active filters
// @Tags         rates
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        transport_mode query string false "Transport mode filter"
// @Param        carrier_id query string false "Carrier ID filter"
// @Param        active query bool false "Active filter"
// @Param        search query string false "Search in name and code"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} dto.Response{data=tariff.ListResponse[tariff.RateResponse]}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/rates [get]
func (h *RateHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := parseRateFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rates, err := h.rateService.ListRates(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rates)
}

// UpdateTerm godoc
// @Summary      Replace a rate's pricing term
// @Description  Replaces the term under optimistic locking and bumps the rate version
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Rate ID"
// @Param        request body tariff.RateTermDTO true "New pricing term"
// @Success      200 {object} dto.Response{data=tariff.RateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/rates/{id}/term [put]
func (h *RateHandler) UpdateTerm(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rate ID format")
		return
	}

	var term tariffapp.RateTermDTO
	if err := c.ShouldBindJSON(&term); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rate, err := h.rateService.UpdateRateTerm(c.Request.Context(), tenantID, rateID, term)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rate)
}

// Deactivate godoc
// @Summary      Deactivate a rate
// @Description  Removes the rate from candidate selection without deleting it
// @Tags         rates
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Rate ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/rates/{id}/deactivate [post]
func (h *RateHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rate ID format")
		return
	}

	if err := h.rateService.DeactivateRate(c.Request.Context(), tenantID, rateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete godoc
// @Summary      Delete a rate
// @Tags         rates
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Rate ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/rates/{id} [delete]
func (h *RateHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid rate ID format")
		return
	}

	if err := h.rateService.DeleteRate(c.Request.Context(), tenantID, rateID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateContractLine godoc
// @Summary      Create a carrier contract line
// @Description  Creates a negotiated contract line whose term takes precedence over general rates
// @Tags         contract-lines
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body tariff.CreateContractLineRequest true "Contract line creation request"
// @Success      201 {object} dto.Response{data=tariff.ContractLine}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/contract-lines [post]
func (h *RateHandler) CreateContractLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req tariffapp.CreateContractLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	line, err := h.rateService.CreateContractLine(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, line)
}

// ListContractLines godoc
// @Summary      List the lines of a contract
// @Tags         contract-lines
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        contract_id path string true "Contract ID"
// @Success      200 {object} dto.Response{data=[]tariff.ContractLine}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/contracts/{contract_id}/lines [get]
func (h *RateHandler) ListContractLines(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	contractID, err := uuid.Parse(c.Param("contract_id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	lines, err := h.rateService.ListContractLines(c.Request.Context(), tenantID, contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lines)
}

// UpdateContractLineTerm godoc
// @Summary      Replace a contract line's pricing term
// @Tags         contract-lines
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Contract line ID"
// @Param        request body tariff.RateTermDTO true "New pricing term"
// @Success      200 {object} dto.Response{data=tariff.ContractLine}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/contract-lines/{id}/term [put]
func (h *RateHandler) UpdateContractLineTerm(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract line ID format")
		return
	}

	var term tariffapp.RateTermDTO
	if err := c.ShouldBindJSON(&term); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	line, err := h.rateService.UpdateContractLineTerm(c.Request.Context(), tenantID, lineID, term)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, line)
}

// DeactivateContractLine godoc
// @Summary      Deactivate a contract line
// @Tags         contract-lines
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Contract line ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/contract-lines/{id}/deactivate [post]
func (h *RateHandler) DeactivateContractLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract line ID format")
		return
	}

	if err := h.rateService.DeactivateContractLine(c.Request.Context(), tenantID, lineID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// parseRateFilter builds a rate filter from list query parameters
func parseRateFilter(c *gin.Context) (tariff.RateFilter, error) {
	filter := tariff.RateFilter{
		Search: c.Query("search"),
	}

	if mode := c.Query("transport_mode"); mode != "" {
		tm := tariff.TransportMode(mode)
		filter.TransportMode = &tm
	}

	if carrierIDStr := c.Query("carrier_id"); carrierIDStr != "" {
		carrierID, err := uuid.Parse(carrierIDStr)
		if err != nil {
			return filter, err
		}
		filter.CarrierID = &carrierID
	}

	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return filter, err
		}
		filter.Active = &active
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))
	return filter, nil
}
