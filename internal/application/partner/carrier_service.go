package partner

import (
	"context"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/partner"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarrierService handles carrier-related application operations
type CarrierService struct {
	carrierRepo partner.CarrierRepository
}

// NewCarrierService creates a new CarrierService
func NewCarrierService(carrierRepo partner.CarrierRepository) *CarrierService {
	return &CarrierService{
		carrierRepo: carrierRepo,
	}
}

// Create creates a new carrier
func (s *CarrierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCarrierRequest) (*CarrierResponse, error) {
	// Check if code already exists
	exists, err := s.carrierRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Carrier with this code already exists")
	}

	carrier, err := partner.NewCarrier(tenantID, req.Code, req.Name, partner.CarrierType(req.Type))
	if err != nil {
		return nil, err
	}

	if req.SCAC != "" {
		if err := carrier.SetSCAC(req.SCAC); err != nil {
			return nil, err
		}
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := carrier.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}

	if req.Address != "" || req.City != "" || req.PostalCode != "" || req.Country != "" {
		if err := carrier.SetAddress(req.Address, req.City, req.PostalCode, req.Country); err != nil {
			return nil, err
		}
	}

	creditLimit := decimal.Zero
	if req.CreditLimit != nil {
		creditLimit = *req.CreditLimit
	}
	if req.PaymentDays > 0 || !creditLimit.IsZero() {
		days := req.PaymentDays
		if days == 0 {
			days = carrier.PaymentDays
		}
		if err := carrier.SetPaymentTerms(days, creditLimit); err != nil {
			return nil, err
		}
	}

	if len(req.SupportedModes) > 0 {
		if err := carrier.SetSupportedModes(toTransportModes(req.SupportedModes)); err != nil {
			return nil, err
		}
	}

	if err := s.carrierRepo.Save(ctx, carrier); err != nil {
		return nil, err
	}

	response := ToCarrierResponse(carrier)
	return &response, nil
}

// GetByID retrieves a carrier by ID
func (s *CarrierService) GetByID(ctx context.Context, tenantID, carrierID uuid.UUID) (*CarrierResponse, error) {
	carrier, err := s.carrierRepo.FindByIDForTenant(ctx, tenantID, carrierID)
	if err != nil {
		return nil, err
	}

	response := ToCarrierResponse(carrier)
	return &response, nil
}

// GetByCode retrieves a carrier by code
func (s *CarrierService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*CarrierResponse, error) {
	carrier, err := s.carrierRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	response := ToCarrierResponse(carrier)
	return &response, nil
}

// List retrieves carriers with filtering and pagination
func (s *CarrierService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CarrierResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	carriers, err := s.carrierRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.carrierRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CarrierResponse, 0, len(carriers))
	for i := range carriers {
		responses = append(responses, ToCarrierResponse(&carriers[i]))
	}
	return responses, total, nil
}

// Update updates a carrier's basic information
func (s *CarrierService) Update(ctx context.Context, tenantID, carrierID uuid.UUID, req UpdateCarrierRequest) (*CarrierResponse, error) {
	carrier, err := s.carrierRepo.FindByIDForTenant(ctx, tenantID, carrierID)
	if err != nil {
		return nil, err
	}

	if err := carrier.Update(req.Name, req.ShortName); err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := carrier.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}

	if len(req.SupportedModes) > 0 {
		if err := carrier.SetSupportedModes(toTransportModes(req.SupportedModes)); err != nil {
			return nil, err
		}
	}

	if err := s.carrierRepo.Save(ctx, carrier); err != nil {
		return nil, err
	}

	response := ToCarrierResponse(carrier)
	return &response, nil
}

// Activate activates a carrier
func (s *CarrierService) Activate(ctx context.Context, tenantID, carrierID uuid.UUID) error {
	return s.changeStatus(ctx, tenantID, carrierID, (*partner.Carrier).Activate)
}

// Deactivate deactivates a carrier
func (s *CarrierService) Deactivate(ctx context.Context, tenantID, carrierID uuid.UUID) error {
	return s.changeStatus(ctx, tenantID, carrierID, (*partner.Carrier).Deactivate)
}

// Block blocks a carrier for quality or billing issues
func (s *CarrierService) Block(ctx context.Context, tenantID, carrierID uuid.UUID) error {
	return s.changeStatus(ctx, tenantID, carrierID, (*partner.Carrier).Block)
}

func (s *CarrierService) changeStatus(ctx context.Context, tenantID, carrierID uuid.UUID, change func(*partner.Carrier) error) error {
	carrier, err := s.carrierRepo.FindByIDForTenant(ctx, tenantID, carrierID)
	if err != nil {
		return err
	}

	if err := change(carrier); err != nil {
		return err
	}

	return s.carrierRepo.Save(ctx, carrier)
}

// Delete deletes a carrier
func (s *CarrierService) Delete(ctx context.Context, tenantID, carrierID uuid.UUID) error {
	return s.carrierRepo.DeleteForTenant(ctx, tenantID, carrierID)
}
