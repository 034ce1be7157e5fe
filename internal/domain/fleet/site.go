package fleet

import (
	"strings"
	"time"

	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// SiteType represents what a site is used for
type SiteType string

const (
	SiteTypeDepot      SiteType = "depot"
	SiteTypeWarehouse  SiteType = "warehouse"
	SiteTypeCrossDock  SiteType = "cross_dock"
	SiteTypeCustomerDC SiteType = "customer_dc"
)

// Site represents a logistics site (depot, warehouse, cross-dock)
type Site struct {
	shared.TenantAggregateRoot
	Code       string   `gorm:"type:varchar(50);not null;uniqueIndex:idx_site_tenant_code,priority:2"`
	Name       string   `gorm:"type:varchar(200);not null"`
	Type       SiteType `gorm:"type:varchar(20);not null;default:'depot'"`
	Address    string   `gorm:"type:text"`
	City       string   `gorm:"type:varchar(100)"`
	PostalCode string   `gorm:"type:varchar(20)"`
	Country    string   `gorm:"type:varchar(2);not null;default:'FR'"` // ISO 3166-1 alpha-2
	Zone       string   `gorm:"type:varchar(50);index"`                // Tariff zone the site belongs to
	Active     bool     `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Site) TableName() string {
	return "sites"
}

// NewSite creates a new active site
func NewSite(tenantID uuid.UUID, code, name string, siteType SiteType, country string) (*Site, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Site code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Site name cannot be empty")
	}
	switch siteType {
	case SiteTypeDepot, SiteTypeWarehouse, SiteTypeCrossDock, SiteTypeCustomerDC:
	default:
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid site type")
	}
	if len(country) != 2 {
		return nil, shared.NewDomainError("INVALID_COUNTRY", "Country must be an ISO 3166-1 alpha-2 code")
	}

	return &Site{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                siteType,
		Country:             strings.ToUpper(country),
		Active:              true,
	}, nil
}

// SetZone assigns the site to a tariff zone
func (s *Site) SetZone(zone string) {
	s.Zone = zone
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// SetAddress sets the site's address information
func (s *Site) SetAddress(address, city, postalCode string) {
	s.Address = address
	s.City = city
	s.PostalCode = postalCode
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate removes the site from planning
func (s *Site) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}
