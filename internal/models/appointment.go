package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID    uint `gorm:"index;not null" json:"business_id"`
	StaffMemberID uint `gorm:"index;not null" json:"staff_member_id"`
	CustomerID    uint `gorm:"index;not null" json:"customer_id"`
	ServiceID     uint `gorm:"not null" json:"service_id"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	IsDelivery bool   `gorm:"default:false" json:"is_delivery"`
	Status     string `gorm:"size:20;default:'scheduled'" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
