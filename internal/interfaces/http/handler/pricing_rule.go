package handler

import (
	"strconv"

	tariffapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/tariff"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricingRuleHandler handles pricing rule authoring endpoints
type PricingRuleHandler struct {
	BaseHandler
	ruleService *tariffapp.PricingRuleService
}

// NewPricingRuleHandler creates a new PricingRuleHandler
func NewPricingRuleHandler(ruleService *tariffapp.PricingRuleService) *PricingRuleHandler {
	return &PricingRuleHandler{
		ruleService: ruleService,
	}
}

// Create godoc
// @Summary      Create a pricing rule
// @Description  Creates a conditional adjustment rule evaluated after surcharges during quote composition
// @Tags         pricing-rules
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body tariff.CreatePricingRuleRequest true "Pricing rule creation request"
// @Success      201 {object} dto.Response{data=tariff.PricingRuleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/pricing-rules [post]
func (h *PricingRuleHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req tariffapp.CreatePricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.ruleService.CreatePricingRule(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, rule)
}

// Get godoc
// @Summary      Get a pricing rule by ID
// @Tags         pricing-rules
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Pricing rule ID"
// @Success      200 {object} dto.Response{data=tariff.PricingRuleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/pricing-rules/{id} [get]
func (h *PricingRuleHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pricing rule ID format")
		return
	}

	rule, err := h.ruleService.GetPricingRule(c.Request.Context(), tenantID, ruleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rule)
}

// List godoc
// @Summary      List pricing rules
// @Tags         pricing-rules
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} dto.Response{data=tariff.ListResponse[tariff.PricingRuleResponse]}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/pricing-rules [get]
func (h *PricingRuleHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	rules, err := h.ruleService.ListPricingRules(c.Request.Context(), tenantID, page, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rules)
}

// Deactivate godoc
// @Summary      Deactivate a pricing rule
// @Tags         pricing-rules
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Pricing rule ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/pricing-rules/{id}/deactivate [post]
func (h *PricingRuleHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pricing rule ID format")
		return
	}

	if err := h.ruleService.DeactivatePricingRule(c.Request.Context(), tenantID, ruleID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete godoc
// @Summary      Delete a pricing rule
// @Tags         pricing-rules
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Pricing rule ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tariff/pricing-rules/{id} [delete]
func (h *PricingRuleHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pricing rule ID format")
		return
	}

	if err := h.ruleService.DeletePricingRule(c.Request.Context(), tenantID, ruleID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
