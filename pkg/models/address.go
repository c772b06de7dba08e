// pkg/models/address.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a postal address owned by a user. A Settings row may point at
// one of them as its pickup address; Address itself does not expose that link.
type Address struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"userId" gorm:"column:userId;type:uuid;not null;index"`
	Label      string    `json:"label" gorm:"type:varchar(50)"` // "Home", "Office"
	Street     string    `json:"street" gorm:"type:varchar(255);not null"`
	City       string    `json:"city" gorm:"type:varchar(100);not null"`
	State      string    `json:"state" gorm:"type:varchar(100)"`
	PostalCode string    `json:"postal_code" gorm:"type:varchar(20);not null"`
	Country    string    `json:"country" gorm:"type:varchar(2);not null"` // ISO 3166-1 alpha-2

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Address
func (Address) TableName() string {
	return "addresses"
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
