package partner

import (
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/partner"
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCarrierRequest represents a request to create a carrier
type CreateCarrierRequest struct {
	Code           string   `json:"code" binding:"required,min=2,max=50"`
	Name           string   `json:"name" binding:"required,min=2,max=200"`
	Type           string   `json:"type" binding:"required"`
	SCAC           string   `json:"scac"`
	ContactName    string   `json:"contact_name"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	PostalCode     string   `json:"postal_code"`
	Country        string   `json:"country"`
	PaymentDays    int      `json:"payment_days"`
	CreditLimit    *decimal.Decimal `json:"credit_limit"`
	SupportedModes []string `json:"supported_modes"`
}

// UpdateCarrierRequest represents a request to update a carrier
type UpdateCarrierRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=200"`
	ShortName      string   `json:"short_name"`
	ContactName    string   `json:"contact_name"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	SupportedModes []string `json:"supported_modes"`
}

// CarrierResponse represents a carrier in API responses
type CarrierResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	ShortName      string          `json:"short_name,omitempty"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	SCAC           string          `json:"scac,omitempty"`
	ContactName    string          `json:"contact_name,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	Country        string          `json:"country"`
	PaymentDays    int             `json:"payment_days"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	Balance        decimal.Decimal `json:"balance"`
	OnTimeRating   int             `json:"on_time_rating"`
	SupportedModes string          `json:"supported_modes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToCarrierResponse converts a domain carrier to a response DTO
func ToCarrierResponse(c *partner.Carrier) CarrierResponse {
	return CarrierResponse{
		ID:             c.ID,
		Code:           c.Code,
		Name:           c.Name,
		ShortName:      c.ShortName,
		Type:           string(c.Type),
		Status:         string(c.Status),
		SCAC:           c.SCAC,
		ContactName:    c.ContactName,
		Phone:          c.Phone,
		Email:          c.Email,
		Country:        c.Country,
		PaymentDays:    c.PaymentDays,
		CreditLimit:    c.CreditLimit,
		Balance:        c.Balance,
		OnTimeRating:   c.OnTimeRating,
		SupportedModes: c.SupportedModes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toTransportModes(modes []string) []tariff.TransportMode {
	out := make([]tariff.TransportMode, 0, len(modes))
	for _, m := range modes {
		out = append(out, tariff.TransportMode(m))
	}
	return out
}
