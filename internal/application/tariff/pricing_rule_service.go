package tariff

import (
	"context"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/google/uuid"
)

// PricingRuleService handles pricing-rule authoring operations
type PricingRuleService struct {
	ruleRepo tariff.PricingRuleRepository
}

// NewPricingRuleService creates a new PricingRuleService
func NewPricingRuleService(ruleRepo tariff.PricingRuleRepository) *PricingRuleService {
	return &PricingRuleService{ruleRepo: ruleRepo}
}

// CreatePricingRule creates a pricing rule. Validation rejects malformed
// conditions and actions up front; evaluation assumes well-formed rules.
func (s *PricingRuleService) CreatePricingRule(ctx context.Context, tenantID uuid.UUID, req CreatePricingRuleRequest) (*PricingRuleResponse, error) {
	rule, err := tariff.NewPricingRule(tenantID, req.Name, tariff.RuleType(req.RuleType),
		req.Conditions, req.Actions, req.Priority, req.EffectiveDate)
	if err != nil {
		return nil, err
	}
	rule.ExpiryDate = req.ExpiryDate
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	resp := ToPricingRuleResponse(rule)
	return &resp, nil
}

// GetPricingRule retrieves a pricing rule by ID
func (s *PricingRuleService) GetPricingRule(ctx context.Context, tenantID, ruleID uuid.UUID) (*PricingRuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID)
	if err != nil {
		return nil, err
	}
	resp := ToPricingRuleResponse(rule)
	return &resp, nil
}

// ListPricingRules lists pricing rules with pagination
func (s *PricingRuleService) ListPricingRules(ctx context.Context, tenantID uuid.UUID, page, pageSize int) (*ListResponse[PricingRuleResponse], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	rules, total, err := s.ruleRepo.FindAllForTenant(ctx, tenantID, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]PricingRuleResponse, 0, len(rules))
	for i := range rules {
		items = append(items, ToPricingRuleResponse(&rules[i]))
	}
	return &ListResponse[PricingRuleResponse]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// DeactivatePricingRule stops a rule from matching new quotes
func (s *PricingRuleService) DeactivatePricingRule(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, ruleID)
	if err != nil {
		return err
	}

	rule.Deactivate()
	return s.ruleRepo.Save(ctx, rule)
}

// DeletePricingRule deletes a pricing rule
func (s *PricingRuleService) DeletePricingRule(ctx context.Context, tenantID, ruleID uuid.UUID) error {
	return s.ruleRepo.DeleteForTenant(ctx, tenantID, ruleID)
}
