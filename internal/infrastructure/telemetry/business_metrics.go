// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the tariff engine.
// It tracks quote composition, invoice audit activity, and review backlog health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	quoteComposedTotal *Counter
	quoteAmountTotal   *Counter
	invoiceAuditTotal  *Counter

	// Gauge metrics (point-in-time values)
	invoicesPendingReview *Gauge
	openAnomalyCount      *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	auditProvider AuditMetricsProvider
}

// AuditMetricsProvider provides invoice audit data for periodic metrics collection.
// This interface allows the telemetry layer to query audit state without
// depending on the invoicing domain directly.
type AuditMetricsProvider interface {
	// GetPendingReviewCountByCarrier returns the number of invoices awaiting manual review per carrier for a tenant
	GetPendingReviewCountByCarrier(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]int64, error)

	// GetOpenAnomalyCount returns the number of invoices with unresolved anomalies for a tenant
	GetOpenAnomalyCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	AuditProvider   AuditMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		auditProvider: cfg.AuditProvider,
	}

	// Initialize counter metrics
	var err error

	// Quote metrics
	bm.quoteComposedTotal, err = NewCounter(
		cfg.Meter,
		"tms_quote_composed_total",
		"Total number of quotes composed",
		"{quotes}",
	)
	if err != nil {
		return nil, err
	}

	bm.quoteAmountTotal, err = NewCounter(
		cfg.Meter,
		"tms_quote_amount_total",
		"Total quoted amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Audit metrics
	bm.invoiceAuditTotal, err = NewCounter(
		cfg.Meter,
		"tms_invoice_audit_total",
		"Total number of carrier invoice audits",
		"{audits}",
	)
	if err != nil {
		return nil, err
	}

	// Review backlog gauge metrics
	bm.invoicesPendingReview, err = NewGauge(
		cfg.Meter,
		"tms_invoices_pending_review",
		"Current number of invoices awaiting manual review",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	bm.openAnomalyCount, err = NewGauge(
		cfg.Meter,
		"tms_invoices_with_anomalies",
		"Number of invoices carrying unresolved anomalies",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Quote Metrics
// =============================================================================

// RecordQuoteComposed records a quote composition event.
// This should be called from the application layer when a quote is returned.
func (bm *BusinessMetrics) RecordQuoteComposed(ctx context.Context, tenantID uuid.UUID, transportMode string) {
	bm.quoteComposedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrTransportMode.String(transportMode),
	)
}

// RecordQuoteAmount records the total amount of a composed quote.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordQuoteAmount(ctx context.Context, tenantID uuid.UUID, transportMode string, amountCents int64) {
	bm.quoteAmountTotal.Add(ctx, amountCents,
		AttrTenantID.String(tenantID.String()),
		AttrTransportMode.String(transportMode),
	)
}

// RecordQuoteWithAmount is a convenience method that records both quote count and amount.
func (bm *BusinessMetrics) RecordQuoteWithAmount(ctx context.Context, tenantID uuid.UUID, transportMode string, amount decimal.Decimal) {
	bm.RecordQuoteComposed(ctx, tenantID, transportMode)

	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordQuoteAmount(ctx, tenantID, transportMode, amountCents)
}

// =============================================================================
// Audit Metrics
// =============================================================================

// AuditOutcome represents the result of an invoice audit for metrics labeling.
type AuditOutcome string

const (
	AuditOutcomePassed       AuditOutcome = "passed"
	AuditOutcomeFailed       AuditOutcome = "failed"
	AuditOutcomeManualReview AuditOutcome = "manual_review"
)

// RecordInvoiceAudit records an invoice audit run.
// This should be called when the audit pipeline finishes an invoice.
func (bm *BusinessMetrics) RecordInvoiceAudit(ctx context.Context, tenantID uuid.UUID, outcome AuditOutcome) {
	bm.invoiceAuditTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrAuditOutcome.String(string(outcome)),
	)
}

// =============================================================================
// Review Backlog Metrics
// =============================================================================

// RecordPendingReview records the current manual review backlog for a carrier.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordPendingReview(ctx context.Context, tenantID, carrierID uuid.UUID, count int64) {
	bm.invoicesPendingReview.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrCarrierID.String(carrierID.String()),
	)
}

// RecordOpenAnomalyCount records the number of invoices carrying unresolved anomalies.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenAnomalyCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.openAnomalyCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects audit backlog metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectAuditMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectAuditMetrics(ctx, tenantProvider)
		}
	}
}

// collectAuditMetrics collects audit backlog gauge metrics for all tenants.
func (bm *BusinessMetrics) collectAuditMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.auditProvider == nil {
		bm.logger.Debug("No audit provider configured, skipping audit metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantAuditMetrics(ctx, tenantID)
	}
}

// collectTenantAuditMetrics collects audit metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantAuditMetrics(ctx context.Context, tenantID uuid.UUID) {
	// Collect pending review backlog by carrier
	pendingByCarrier, err := bm.auditProvider.GetPendingReviewCountByCarrier(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get pending review backlog for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		for carrierID, count := range pendingByCarrier {
			bm.RecordPendingReview(ctx, tenantID, carrierID, count)
		}
	}

	// Collect open anomaly count
	anomalyCount, err := bm.auditProvider.GetOpenAnomalyCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get open anomaly count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOpenAnomalyCount(ctx, tenantID, anomalyCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// =============================================================================
// Attribute Key Constants
// =============================================================================

// Business metrics attribute keys not already defined in metrics.go
var (
	// Additional business attributes can be added here
	AttrQuoteSource = attribute.Key("quote_source")
)
