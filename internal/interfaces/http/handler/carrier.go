package handler

import (
	"context"
	"strconv"

	partnerapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/partner"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CarrierHandler handles carrier reference data endpoints
type CarrierHandler struct {
	BaseHandler
	carrierService *partnerapp.CarrierService
}

// NewCarrierHandler creates a new CarrierHandler
func NewCarrierHandler(carrierService *partnerapp.CarrierService) *CarrierHandler {
	return &CarrierHandler{
		carrierService: carrierService,
	}
}

// Create godoc
// @Summary      Create a carrier
// @Description  Registers a transport carrier usable in contracts, rates and invoices
// @Tags         carriers
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body partner.CreateCarrierRequest true "Carrier creation request"
// @Success      201 {object} dto.Response{data=partner.CarrierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/carriers [post]
func (h *CarrierHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req partnerapp.CreateCarrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	carrier, err := h.carrierService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, carrier)
}

// Get godoc
// @Summary      Get a carrier by ID
// @Tags         carriers
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Carrier ID"
// @Success      200 {object} dto.Response{data=partner.CarrierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/carriers/{id} [get]
func (h *CarrierHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	carrierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid carrier ID format")
		return
	}

	carrier, err := h.carrierService.GetByID(c.Request.Context(), tenantID, carrierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, carrier)
}

// GetByCode godoc
// @Summary      Get a carrier by code
// @Tags         carriers
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        code path string true "Carrier code"
// @Success      200 {object} dto.Response{data=partner.CarrierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/carriers/code/{code} [get]
func (h *CarrierHandler) GetByCode(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Carrier code is required")
		return
	}

	carrier, err := h.carrierService.GetByCode(c.Request.Context(), tenantID, code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, carrier)
}

// List godoc
// @Summary      List carriers
// @Tags         carriers
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        search query string false "Search in code and name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]partner.CarrierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/carriers [get]
func (h *CarrierHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := parseListFilter(c)

	carriers, total, err := h.carrierService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, carriers, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a carrier
// @Tags         carriers
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Carrier ID"
// @Param        request body partner.UpdateCarrierRequest true "Carrier update request"
// @Success      200 {object} dto.Response{data=partner.CarrierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/carriers/{id} [put]
func (h *CarrierHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	carrierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid carrier ID format")
		return
	}

	var req partnerapp.UpdateCarrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	carrier, err := h.carrierService.Update(c.Request.Context(), tenantID, carrierID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, carrier)
}

// Activate godoc
// @Summary      Activate a carrier
// @Tags         carriers
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Carrier ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/carriers/{id}/activate [post]
func (h *CarrierHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.carrierService.Activate)
}

// Deactivate godoc
// @Summary      Deactivate a carrier
// @Tags         carriers
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Carrier ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/carriers/{id}/deactivate [post]
func (h *CarrierHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.carrierService.Deactivate)
}

// Block godoc
// @Summary      Block a carrier
// @Description  Blocks the carrier so quoting against it is refused
// @Tags         carriers
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Carrier ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/carriers/{id}/block [post]
func (h *CarrierHandler) Block(c *gin.Context) {
	h.changeStatus(c, h.carrierService.Block)
}

// Delete godoc
// @Summary      Delete a carrier
// @Tags         carriers
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Carrier ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/carriers/{id} [delete]
func (h *CarrierHandler) Delete(c *gin.Context) {
	h.changeStatus(c, h.carrierService.Delete)
}

// changeStatus runs a carrier status transition identified by the path ID
func (h *CarrierHandler) changeStatus(c *gin.Context, change func(ctx context.Context, tenantID, carrierID uuid.UUID) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	carrierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid carrier ID format")
		return
	}

	if err := change(c.Request.Context(), tenantID, carrierID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// parseListFilter builds a shared filter from common list query parameters
func parseListFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil && pageSize > 0 {
		filter.PageSize = pageSize
	}
	return filter
}
