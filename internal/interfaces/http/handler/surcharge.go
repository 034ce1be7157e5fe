package handler

import (
	"strconv"

	tariffapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/tariff"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SurchargeHandler handles surcharge authoring endpoints
type SurchargeHandler struct {
	BaseHandler
	surchargeService *tariffapp.SurchargeService
}

// NewSurchargeHandler creates a new SurchargeHandler
func NewSurchargeHandler(surchargeService *tariffapp.SurchargeService) *SurchargeHandler {
	return &SurchargeHandler{
		surchargeService: surchargeService,
	}
}

// Create godoc
// @Summary      Create a surcharge
// @Description  Creates a surcharge definition applied automatically during quote composition
// @Tags         surcharges
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body tariff.CreateSurchargeRequest true "Surcharge creation request"
// @Success      201 {object} dto.Response{data=tariff.SurchargeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/surcharges [post]
func (h *SurchargeHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req tariffapp.CreateSurchargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	surcharge, err := h.surchargeService.CreateSurcharge(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, surcharge)
}

// Get godoc
// @Summary      Get a surcharge by ID
// @Tags         surcharges
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Surcharge ID"
// @Success      200 {object} dto.Response{data=tariff.SurchargeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/surcharges/{id} [get]
func (h *SurchargeHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	surchargeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid surcharge ID format")
		return
	}

	surcharge, err := h.surchargeService.GetSurcharge(c.Request.Context(), tenantID, surchargeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, surcharge)
}

// List godoc
// @Summary      List surcharges
// @Tags         surcharges
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} dto.Response{data=tariff.ListResponse[tariff.SurchargeResponse]}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/surcharges [get]
func (h *SurchargeHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	surcharges, err := h.surchargeService.ListSurcharges(c.Request.Context(), tenantID, page, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, surcharges)
}

// Deactivate godoc
// @Summary      Deactivate a surcharge
// @Tags         surcharges
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Surcharge ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/surcharges/{id}/deactivate [post]
func (h *SurchargeHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	surchargeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid surcharge ID format")
		return
	}

	if err := h.surchargeService.DeactivateSurcharge(c.Request.Context(), tenantID, surchargeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete godoc
// @Summary      Delete a surcharge
// @Tags         surcharges
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Surcharge ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/surcharges/{id} [delete]
func (h *SurchargeHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	surchargeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid surcharge ID format")
		return
	}

	if err := h.surchargeService.DeleteSurcharge(c.Request.Context(), tenantID, surchargeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
