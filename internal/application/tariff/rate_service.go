package tariff

import (
	"context"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/google/uuid"
)

// RateService handles rate and contract-line authoring operations.
// Structural validation happens here, at authoring time; evaluation assumes
// well-formed records.
type RateService struct {
	rateRepo tariff.RateRepository
	lineRepo tariff.ContractLineRepository
}

// NewRateService creates a new RateService
func NewRateService(rateRepo tariff.RateRepository, lineRepo tariff.ContractLineRepository) *RateService {
	return &RateService{
		rateRepo: rateRepo,
		lineRepo: lineRepo,
	}
}

// CreateRate creates a general rate
func (s *RateService) CreateRate(ctx context.Context, tenantID uuid.UUID, req CreateRateRequest) (*RateResponse, error) {
	rate, err := tariff.NewRate(tenantID, req.Name, req.Code, req.Term.ToDomainTerm())
	if err != nil {
		return nil, err
	}
	rate.CarrierID = req.CarrierID

	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}

	resp := ToRateResponse(rate)
	return &resp, nil
}

// GetRate retrieves a rate by ID
func (s *RateService) GetRate(ctx context.Context, tenantID, rateID uuid.UUID) (*RateResponse, error) {
	rate, err := s.rateRepo.FindByIDForTenant(ctx, tenantID, rateID)
	if err != nil {
		return nil, err
	}
	resp := ToRateResponse(rate)
	return &resp, nil
}

// ListRates lists rates with filtering and pagination
func (s *RateService) ListRates(ctx context.Context, tenantID uuid.UUID, filter tariff.RateFilter) (*ListResponse[RateResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}

	rates, total, err := s.rateRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RateResponse, 0, len(rates))
	for i := range rates {
		items = append(items, ToRateResponse(&rates[i]))
	}
	return &ListResponse[RateResponse]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// UpdateRateTerm replaces a rate's pricing term under optimistic locking
func (s *RateService) UpdateRateTerm(ctx context.Context, tenantID, rateID uuid.UUID, term RateTermDTO) (*RateResponse, error) {
	rate, err := s.rateRepo.FindByIDForTenant(ctx, tenantID, rateID)
	if err != nil {
		return nil, err
	}

	if err := rate.UpdateTerm(term.ToDomainTerm()); err != nil {
		return nil, err
	}

	if err := s.rateRepo.SaveWithLock(ctx, rate); err != nil {
		return nil, err
	}

	resp := ToRateResponse(rate)
	return &resp, nil
}

// DeactivateRate removes a rate from candidate selection
func (s *RateService) DeactivateRate(ctx context.Context, tenantID, rateID uuid.UUID) error {
	rate, err := s.rateRepo.FindByIDForTenant(ctx, tenantID, rateID)
	if err != nil {
		return err
	}

	rate.Deactivate()
	return s.rateRepo.SaveWithLock(ctx, rate)
}

// DeleteRate deletes a rate
func (s *RateService) DeleteRate(ctx context.Context, tenantID, rateID uuid.UUID) error {
	return s.rateRepo.DeleteForTenant(ctx, tenantID, rateID)
}

// CreateContractLine creates a carrier contract line
func (s *RateService) CreateContractLine(ctx context.Context, tenantID uuid.UUID, req CreateContractLineRequest) (*tariff.ContractLine, error) {
	line, err := tariff.NewContractLine(tenantID, req.ContractID, req.CarrierID, req.ServiceType, req.Term.ToDomainTerm())
	if err != nil {
		return nil, err
	}

	if err := s.lineRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// ListContractLines lists the lines of a contract
func (s *RateService) ListContractLines(ctx context.Context, tenantID, contractID uuid.UUID) ([]tariff.ContractLine, error) {
	return s.lineRepo.FindByContract(ctx, tenantID, contractID)
}

// UpdateContractLineTerm replaces a contract line's pricing term
func (s *RateService) UpdateContractLineTerm(ctx context.Context, tenantID, lineID uuid.UUID, term RateTermDTO) (*tariff.ContractLine, error) {
	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, lineID)
	if err != nil {
		return nil, err
	}

	if err := line.UpdateTerm(term.ToDomainTerm()); err != nil {
		return nil, err
	}

	if err := s.lineRepo.SaveWithLock(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// DeactivateContractLine removes a contract line from candidate selection
func (s *RateService) DeactivateContractLine(ctx context.Context, tenantID, lineID uuid.UUID) error {
	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, lineID)
	if err != nil {
		return err
	}

	line.Deactivate()
	return s.lineRepo.SaveWithLock(ctx, line)
}
