package models

import "time"

// Customer is the business-scoped profile of a global user.
type Customer struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"not null;uniqueIndex:idx_customer_business_user" json:"business_id"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_customer_business_user" json:"user_id"`

	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`
	Email     string `gorm:"size:100" json:"email"`
	Phone     string `gorm:"size:20" json:"phone"`
	Address   string `gorm:"size:255" json:"address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
