package handler

import (
	fleetapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/fleet"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/fleet"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FleetHandler handles vehicle and site reference data endpoints
type FleetHandler struct {
	BaseHandler
	fleetService *fleetapp.FleetService
}

// NewFleetHandler creates a new FleetHandler
func NewFleetHandler(fleetService *fleetapp.FleetService) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
	}
}

// SetVehicleStatusRequest represents a request to change a vehicle's status
// @Description Request body for setting vehicle operational status
type SetVehicleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available in_transit maintenance retired" example:"maintenance"`
}

// CreateVehicle godoc
// @Summary      Register a vehicle
// @Tags         fleet
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body fleet.CreateVehicleRequest true "Vehicle registration request"
// @Success      201 {object} dto.Response{data=fleet.Vehicle}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fleet/vehicles [post]
func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req fleetapp.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vehicle, err := h.fleetService.CreateVehicle(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, vehicle)
}

// GetVehicle godoc
// @Summary      Get a vehicle by ID
// @Tags         fleet
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Vehicle ID"
// @Success      200 {object} dto.Response{data=fleet.Vehicle}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fleet/vehicles/{id} [get]
func (h *FleetHandler) GetVehicle(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID format")
		return
	}

	vehicle, err := h.fleetService.GetVehicle(c.Request.Context(), tenantID, vehicleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, vehicle)
}

// ListVehicles godoc
// @Summary      List vehicles
// @Tags         fleet
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        search query string false "Search in registration number"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]fleet.Vehicle}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fleet/vehicles [get]
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := parseListFilter(c)

	vehicles, err := h.fleetService.ListVehicles(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, vehicles)
}

// SetVehicleStatus godoc
// @Summary      Change a vehicle's operational status
// @Tags         fleet
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Vehicle ID"
// @Param        request body SetVehicleStatusRequest true "New status"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fleet/vehicles/{id}/status [put]
func (h *FleetHandler) SetVehicleStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID format")
		return
	}

	var req SetVehicleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.fleetService.SetVehicleStatus(c.Request.Context(), tenantID, vehicleID, fleet.VehicleStatus(req.Status)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// RetireVehicle godoc
// @Summary      Retire a vehicle
// @Description  Permanently removes the vehicle from operations
// @Tags         fleet
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Vehicle ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fleet/vehicles/{id}/retire [post]
func (h *FleetHandler) RetireVehicle(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid vehicle ID format")
		return
	}

	if err := h.fleetService.RetireVehicle(c.Request.Context(), tenantID, vehicleID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateSite godoc
// @Summary      Register a site
// @Tags         fleet
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body fleet.CreateSiteRequest true "Site registration request"
// @Success      201 {object} dto.Response{data=fleet.Site}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fleet/sites [post]
func (h *FleetHandler) CreateSite(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req fleetapp.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	site, err := h.fleetService.CreateSite(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, site)
}

// GetSite godoc
// @Summary      Get a site by ID
// @Tags         fleet
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Site ID"
// @Success      200 {object} dto.Response{data=fleet.Site}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fleet/sites/{id} [get]
func (h *FleetHandler) GetSite(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	site, err := h.fleetService.GetSite(c.Request.Context(), tenantID, siteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, site)
}

// ListSites godoc
// @Summary      List sites
// @Tags         fleet
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        search query string false "Search in code and name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]fleet.Site}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fleet/sites [get]
func (h *FleetHandler) ListSites(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := parseListFilter(c)

	sites, err := h.fleetService.ListSites(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sites)
}

// DeactivateSite godoc
// @Summary      Deactivate a site
// @Description  Removes the site from planning without deleting it
// @Tags         fleet
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Site ID"
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fleet/sites/{id}/deactivate [post]
func (h *FleetHandler) DeactivateSite(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	if err := h.fleetService.DeactivateSite(c.Request.Context(), tenantID, siteID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
