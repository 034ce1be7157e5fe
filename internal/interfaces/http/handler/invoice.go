package handler

import (
	"context"
	"strconv"
	"time"

	invoicingapp "github.com/TarekBesrour/TMSv3-sub004/internal/application/invoicing"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/invoicing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles carrier invoice control endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicingapp.InvoiceControlService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicingapp.InvoiceControlService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// workflowActionRequest mirrors the application request but lets the actor
// come from the X-Actor-ID header when the body omits it.
type workflowActionRequest struct {
	ActorID *uuid.UUID `json:"actor_id"`
	Notes   string     `json:"notes" example:"Checked against contract C-2024-018"`
}

// Register godoc
// @Summary      Register a carrier invoice
// @Description  Registers an incoming carrier invoice with its lines and runs the automatic audit
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body invoicing.RegisterInvoiceRequest true "Invoice registration request"
// @Success      201 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices [post]
func (h *InvoiceHandler) Register(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req invoicingapp.RegisterInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Register(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Get godoc
// @Summary      Get a carrier invoice by ID
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @Summary      List carrier invoices
// @Description  Lists invoices with optional carrier, status, validation status and date range filters
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        carrier_id query string false "Carrier ID filter"
// @Param        status query string false "Invoice status filter"
// @Param        validation_status query string false "Validation status filter"
// @Param        from_date query string false "Invoice date lower bound (RFC 3339)"
// @Param        to_date query string false "Invoice date upper bound (RFC 3339)"
// @Param        search query string false "Search in invoice number and carrier name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} dto.Response{data=invoicing.ListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := parseInvoiceFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoices)
}

// ListPendingReview godoc
// @Summary      List invoices awaiting manual review
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} dto.Response{data=[]invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/pending-review [get]
func (h *InvoiceHandler) ListPendingReview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoices, err := h.invoiceService.ListPendingReview(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoices)
}

// Audit godoc
// @Summary      Re-run the automatic audit of an invoice
// @Description  Recomputes line variances and anomalies against expected amounts
// @Tags         invoices
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/audit [post]
func (h *InvoiceHandler) Audit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.AuditInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// CorrectLine godoc
// @Summary      Apply a correction to an invoice line
// @Description  Records operator-corrected figures and re-audits the invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Invoice ID"
// @Param        request body invoicing.CorrectLineRequest true "Line correction request"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/correct-line [post]
func (h *InvoiceHandler) CorrectLine(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req invoicingapp.CorrectLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.CorrectLine(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// StartReview godoc
// @Summary      Start reviewing an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-Actor-ID header string false "Acting user ID (overridden by body actor_id)"
// @Param        id path string true "Invoice ID"
// @Param        request body workflowActionRequest false "Action notes"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/start-review [post]
func (h *InvoiceHandler) StartReview(c *gin.Context) {
	h.workflowAction(c, h.invoiceService.StartReview)
}

// Validate godoc
// @Summary      Validate an invoice after review
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-Actor-ID header string false "Acting user ID (overridden by body actor_id)"
// @Param        id path string true "Invoice ID"
// @Param        request body workflowActionRequest false "Action notes"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/validate [post]
func (h *InvoiceHandler) Validate(c *gin.Context) {
	h.workflowAction(c, h.invoiceService.Validate)
}

// Approve godoc
// @Summary      Approve an invoice for payment
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-Actor-ID header string false "Acting user ID (overridden by body actor_id)"
// @Param        id path string true "Invoice ID"
// @Param        request body workflowActionRequest false "Action notes"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/approve [post]
func (h *InvoiceHandler) Approve(c *gin.Context) {
	h.workflowAction(c, h.invoiceService.Approve)
}

// Dispute godoc
// @Summary      Dispute an invoice with the carrier
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-Actor-ID header string false "Acting user ID (overridden by body actor_id)"
// @Param        id path string true "Invoice ID"
// @Param        request body workflowActionRequest false "Action notes"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/dispute [post]
func (h *InvoiceHandler) Dispute(c *gin.Context) {
	h.workflowAction(c, h.invoiceService.Dispute)
}

// ResolveDispute godoc
// @Summary      Resolve a disputed invoice back to review
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-Actor-ID header string false "Acting user ID (overridden by body actor_id)"
// @Param        id path string true "Invoice ID"
// @Param        request body workflowActionRequest false "Action notes"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/resolve-dispute [post]
func (h *InvoiceHandler) ResolveDispute(c *gin.Context) {
	h.workflowAction(c, h.invoiceService.ResolveDispute)
}

// Reject godoc
// @Summary      Reject an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-Actor-ID header string false "Acting user ID (overridden by body actor_id)"
// @Param        id path string true "Invoice ID"
// @Param        request body workflowActionRequest false "Action notes"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/reject [post]
func (h *InvoiceHandler) Reject(c *gin.Context) {
	h.workflowAction(c, h.invoiceService.Reject)
}

// MarkPaid godoc
// @Summary      Mark an approved invoice as paid
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-Actor-ID header string false "Acting user ID (overridden by body actor_id)"
// @Param        id path string true "Invoice ID"
// @Param        request body workflowActionRequest false "Action notes"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/mark-paid [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	h.workflowAction(c, h.invoiceService.MarkPaid)
}

// RequireManualReview godoc
// @Summary      Force an invoice into manual review
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-Actor-ID header string false "Acting user ID (overridden by body actor_id)"
// @Param        id path string true "Invoice ID"
// @Param        request body workflowActionRequest false "Action notes"
// @Success      200 {object} dto.Response{data=invoicing.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoicing/invoices/{id}/require-manual-review [post]
func (h *InvoiceHandler) RequireManualReview(c *gin.Context) {
	h.workflowAction(c, h.invoiceService.RequireManualReview)
}

// workflowAction binds the action request, resolves the actor and invokes a
// status transition on the service.
func (h *InvoiceHandler) workflowAction(
	c *gin.Context,
	action func(ctx context.Context, tenantID, invoiceID uuid.UUID, req invoicingapp.WorkflowActionRequest) (*invoicingapp.InvoiceResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var body workflowActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	req := invoicingapp.WorkflowActionRequest{Notes: body.Notes}
	if body.ActorID != nil {
		req.ActorID = *body.ActorID
	} else {
		actorID, err := getActorID(c)
		if err != nil {
			h.BadRequest(c, "Actor ID required via body or X-Actor-ID header")
			return
		}
		req.ActorID = actorID
	}

	invoice, err := action(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// parseInvoiceFilter builds an invoice filter from list query parameters
func parseInvoiceFilter(c *gin.Context) (invoicing.CarrierInvoiceFilter, error) {
	filter := invoicing.CarrierInvoiceFilter{
		Search: c.Query("search"),
	}

	if carrierIDStr := c.Query("carrier_id"); carrierIDStr != "" {
		carrierID, err := uuid.Parse(carrierIDStr)
		if err != nil {
			return filter, err
		}
		filter.CarrierID = &carrierID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := invoicing.InvoiceStatus(statusStr)
		filter.Status = &status
	}

	if vsStr := c.Query("validation_status"); vsStr != "" {
		vs := invoicing.ValidationStatus(vsStr)
		filter.ValidationStatus = &vs
	}

	if fromStr := c.Query("from_date"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &from
	}

	if toStr := c.Query("to_date"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &to
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))
	return filter, nil
}
