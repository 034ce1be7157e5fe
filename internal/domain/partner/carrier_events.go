package partner

import (
	"github.com/TarekBesrour/TMSv3-sub004/internal/domain/shared"
	"github.com/google/uuid"
)

// CarrierCreatedEvent is raised when a new carrier is created
type CarrierCreatedEvent struct {
	shared.BaseDomainEvent
	CarrierID uuid.UUID   `json:"carrier_id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      CarrierType `json:"type"`
}

// EventType returns the event type name
func (e *CarrierCreatedEvent) EventType() string {
	return "CarrierCreated"
}

// NewCarrierCreatedEvent creates a new CarrierCreatedEvent
func NewCarrierCreatedEvent(c *Carrier) *CarrierCreatedEvent {
	return &CarrierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CarrierCreated", "Carrier", c.ID, c.TenantID),
		CarrierID:       c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Type:            c.Type,
	}
}

// CarrierStatusChangedEvent is raised when a carrier's status changes
type CarrierStatusChangedEvent struct {
	shared.BaseDomainEvent
	CarrierID uuid.UUID     `json:"carrier_id"`
	Code      string        `json:"code"`
	OldStatus CarrierStatus `json:"old_status"`
	NewStatus CarrierStatus `json:"new_status"`
}

// EventType returns the event type name
func (e *CarrierStatusChangedEvent) EventType() string {
	return "CarrierStatusChanged"
}

// NewCarrierStatusChangedEvent creates a new CarrierStatusChangedEvent
func NewCarrierStatusChangedEvent(c *Carrier, oldStatus, newStatus CarrierStatus) *CarrierStatusChangedEvent {
	return &CarrierStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CarrierStatusChanged", "Carrier", c.ID, c.TenantID),
		CarrierID:       c.ID,
		Code:            c.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
