// pkg/models/settings.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Settings holds per-user preferences. One row per user.
type Settings struct {
	ID                   uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID  `json:"userId" gorm:"column:userId;type:uuid;not null;uniqueIndex"`
	DefaultPickupAddress *uuid.UUID `json:"defaultPickupAddress,omitempty" gorm:"column:defaultPickupAddress;type:uuid"`
	NotificationsEnabled bool       `json:"notifications_enabled" gorm:"not null"`
	PreferredCarrier     *string    `json:"preferred_carrier,omitempty" gorm:"type:varchar(50)"`
	Units                Units      `json:"units" gorm:"type:varchar(10);not null;default:'metric'"`

	User          *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	PickupAddress *Address `json:"pickupAddress,omitempty" gorm:"foreignKey:DefaultPickupAddress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Settings
func (Settings) TableName() string {
	return "settings"
}

func (s *Settings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Units == "" {
		s.Units = UnitsMetric
	}
	return nil
}

// SettingsRequest is the API input for creating or replacing settings.
// A nil NotificationsEnabled means true on create and unchanged on update;
// an empty Units means metric on create and unchanged on update.
type SettingsRequest struct {
	DefaultPickupAddress *uuid.UUID `json:"defaultPickupAddress"`
	NotificationsEnabled *bool      `json:"notifications_enabled,omitempty"`
	PreferredCarrier     *string    `json:"preferred_carrier,omitempty"`
	Units                Units      `json:"units,omitempty"`
}
