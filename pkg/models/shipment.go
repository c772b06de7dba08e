// pkg/models/shipment.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusException ShipmentStatus = "exception"
)

// Shipment is a parcel tracked on behalf of a user.
type Shipment struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID      `json:"userId" gorm:"column:userId;type:uuid;not null;index"`
	TrackingNumber    string         `json:"tracking_number" gorm:"type:varchar(64);not null;uniqueIndex"`
	Carrier           string         `json:"carrier" gorm:"type:varchar(50);not null"`
	Status            ShipmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Description       *string        `json:"description,omitempty" gorm:"type:text"`
	TrackingEvents    datatypes.JSON `json:"tracking_events,omitempty" gorm:"type:jsonb"` // []TrackingEvent
	EstimatedDelivery *time.Time     `json:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time     `json:"delivered_at,omitempty"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TrackingEvent struct {
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TableName specifies the table name for Shipment
func (Shipment) TableName() string {
	return "shipments"
}

func (s *Shipment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = ShipmentStatusPending
	}
	return nil
}

// ShipmentRequest is the API input for creating a shipment.
type ShipmentRequest struct {
	TrackingNumber    string          `json:"tracking_number"`
	Carrier           string          `json:"carrier"`
	Description       *string         `json:"description,omitempty"`
	TrackingEvents    []TrackingEvent `json:"tracking_events,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
}
