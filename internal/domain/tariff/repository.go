package tariff

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RateFilter defines filtering options for rate queries
type RateFilter struct {
	TransportMode *TransportMode
	CarrierID     *uuid.UUID
	Active        *bool
	Search        string
	Page          int
	PageSize      int
}

// RateRepository persists and loads rates
type RateRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Rate, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter RateFilter) ([]Rate, int64, error)
	// FindActiveForTenant returns the active rates whose validity window
	// contains the given date; further applicability matching is the
	// composer's job.
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]Rate, error)
	Save(ctx context.Context, rate *Rate) error
	SaveWithLock(ctx context.Context, rate *Rate) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ContractLineRepository persists and loads carrier contract lines
type ContractLineRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ContractLine, error)
	FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) ([]ContractLine, error)
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]ContractLine, error)
	FindActiveForCarrier(ctx context.Context, tenantID, carrierID uuid.UUID, at time.Time) ([]ContractLine, error)
	Save(ctx context.Context, line *ContractLine) error
	SaveWithLock(ctx context.Context, line *ContractLine) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SurchargeRepository persists and loads surcharges
type SurchargeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Surcharge, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]Surcharge, int64, error)
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]Surcharge, error)
	Save(ctx context.Context, surcharge *Surcharge) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PricingRuleRepository persists and loads pricing rules.
// IncrementUsage is the only write path for usage bookkeeping: it must be an
// atomic increment at the store (UPDATE ... SET usage_count = usage_count + 1)
// so that concurrent evaluations never under-count.
type PricingRuleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PricingRule, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, page, pageSize int) ([]PricingRule, int64, error)
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID, at time.Time) ([]PricingRule, error)
	Save(ctx context.Context, rule *PricingRule) error
	IncrementUsage(ctx context.Context, tenantID, id uuid.UUID, usedAt time.Time) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
