package tariff

import (
	"context"
	"strings"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared/valueobject"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/logger"
	"github.com/TarekBesrour/TMSv3-sub004/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FuelPriceProvider supplies the current fuel index price consumed by
// fuel-type surcharges. Backed by the fuel index cache; requests may still
// override the price explicitly.
type FuelPriceProvider interface {
	CurrentPrice(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
}

// valueCurrency normalizes a request currency code, defaulting when empty
func valueCurrency(code string) valueobject.Currency {
	if code == "" {
		return valueobject.DefaultCurrency
	}
	return valueobject.Currency(strings.ToUpper(code))
}

// QuoteService composes shipment cost quotes from rates, contract lines,
// surcharges and pricing rules
type QuoteService struct {
	rateRepo     tariff.RateRepository
	lineRepo     tariff.ContractLineRepository
	surchgRepo   tariff.SurchargeRepository
	ruleRepo     tariff.PricingRuleRepository
	fuelProvider FuelPriceProvider
	composer     *tariff.Composer
	metrics      *telemetry.BusinessMetrics
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	rateRepo tariff.RateRepository,
	lineRepo tariff.ContractLineRepository,
	surchgRepo tariff.SurchargeRepository,
	ruleRepo tariff.PricingRuleRepository,
	fuelProvider FuelPriceProvider,
) *QuoteService {
	return &QuoteService{
		rateRepo:     rateRepo,
		lineRepo:     lineRepo,
		surchgRepo:   surchgRepo,
		ruleRepo:     ruleRepo,
		fuelProvider: fuelProvider,
		composer:     tariff.NewComposer(),
	}
}

// SetBusinessMetrics attaches business metrics recording. Optional; the
// service works without it.
func (s *QuoteService) SetBusinessMetrics(metrics *telemetry.BusinessMetrics) {
	s.metrics = metrics
}

// buildContext maps the request onto a domain shipment context, resolving
// the fuel index price when the request does not pin one
func (s *QuoteService) buildContext(ctx context.Context, tenantID uuid.UUID, req QuoteRequest) tariff.ShipmentContext {
	sctx := tariff.ShipmentContext{
		ShipmentDate:       req.ShipmentDate,
		TransportMode:      tariff.TransportMode(req.TransportMode),
		ServiceLevel:       req.ServiceLevel,
		OriginCountry:      strings.ToUpper(req.OriginCountry),
		DestinationCountry: strings.ToUpper(req.DestinationCountry),
		OriginZone:         req.OriginZone,
		DestinationZone:    req.DestinationZone,
		WeightKg:           req.WeightKg,
		VolumeM3:           req.VolumeM3,
		DistanceKm:         req.DistanceKm,
		PalletCount:        req.PalletCount,
		ContainerCount:     req.ContainerCount,
		Hours:              req.Hours,
		DeclaredValue:      req.DeclaredValue,
		Currency:           valueCurrency(req.Currency),
		MonthlyVolume:      req.MonthlyVolume,
		AnnualVolume:       req.AnnualVolume,
		BaseAmount:         req.BaseAmount,
	}
	if req.CustomerID != nil {
		sctx.CustomerID = *req.CustomerID
	}
	if req.CarrierID != nil {
		sctx.CarrierID = *req.CarrierID
	}

	if req.CurrentFuelPrice != nil {
		sctx.CurrentFuelPrice = *req.CurrentFuelPrice
	} else if s.fuelProvider != nil {
		price, err := s.fuelProvider.CurrentPrice(ctx, tenantID)
		if err != nil {
			// fuel surcharges stay inactive without a price; the quote
			// itself is still valid
			logger.L(ctx).Warn("fuel index price unavailable", zap.Error(err))
		} else {
			sctx.CurrentFuelPrice = price
		}
	}
	return sctx
}

// Quote composes the total cost for a shipment. Rule usage is recorded only
// after the quote is successfully composed, one atomic increment per applied
// rule.
func (s *QuoteService) Quote(ctx context.Context, tenantID uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "compose",
		telemetry.WithAttribute(telemetry.SpanAttrTransportMode, req.TransportMode),
		telemetry.WithAttribute(telemetry.SpanAttrOriginZone, req.OriginZone),
		telemetry.WithAttribute(telemetry.SpanAttrDestZone, req.DestinationZone),
	)
	defer span.End()

	sctx := s.buildContext(ctx, tenantID, req)

	rates, err := s.rateRepo.FindActiveForTenant(ctx, tenantID, sctx.ShipmentDate)
	if err != nil {
		return nil, err
	}
	lines, err := s.lineRepo.FindActiveForTenant(ctx, tenantID, sctx.ShipmentDate)
	if err != nil {
		return nil, err
	}

	candidates := make([]tariff.CandidateTerm, 0, len(rates)+len(lines))
	for i := range rates {
		candidates = append(candidates, rates[i].Candidate())
	}
	for i := range lines {
		candidates = append(candidates, lines[i].Candidate())
	}

	surcharges, err := s.surchgRepo.FindActiveForTenant(ctx, tenantID, sctx.ShipmentDate)
	if err != nil {
		return nil, err
	}
	surchargePtrs := make([]*tariff.Surcharge, len(surcharges))
	for i := range surcharges {
		surchargePtrs[i] = &surcharges[i]
	}

	rules, err := s.ruleRepo.FindActiveForTenant(ctx, tenantID, sctx.ShipmentDate)
	if err != nil {
		return nil, err
	}
	rulePtrs := make([]*tariff.PricingRule, len(rules))
	for i := range rules {
		rulePtrs[i] = &rules[i]
	}

	quote, err := s.composer.Compose(sctx, candidates, surchargePtrs, rulePtrs)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTermSource, string(quote.TermSource),
		telemetry.SpanAttrTotal, quote.Total.String(),
	)

	now := time.Now()
	for _, ruleID := range quote.AppliedRuleIDs {
		if err := s.ruleRepo.IncrementUsage(ctx, tenantID, ruleID, now); err != nil {
			// usage bookkeeping must not fail a quote already composed
			logger.L(ctx).Warn("failed to record rule usage",
				zap.String("rule_id", ruleID.String()), zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.RecordQuoteWithAmount(ctx, tenantID, string(sctx.TransportMode), quote.Total)
	}

	logger.L(ctx).Info("quote composed",
		zap.String("term_id", quote.TermID.String()),
		zap.String("total", quote.Total.String()),
		zap.Int("applied_rules", len(quote.AppliedRuleIDs)))

	resp := ToQuoteResponse(quote)
	return &resp, nil
}
