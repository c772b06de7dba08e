// pkg/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account that owns shipments, addresses and one settings row.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Phone     *string   `json:"phone,omitempty" gorm:"type:varchar(30)"`

	// Associations
	Shipments []Shipment `json:"shipments,omitempty" gorm:"foreignKey:UserID"`
	Settings  *Settings  `json:"settings,omitempty" gorm:"foreignKey:UserID"`
	Addresses []Address  `json:"addresses,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
