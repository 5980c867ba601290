package models

import "time"

type StaffMember struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	BusinessID uint  `gorm:"index;not null" json:"business_id"`
	UserID     *uint `gorm:"index" json:"user_id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StaffService links a staff member to a service they can perform.
type StaffService struct {
	StaffMemberID uint `gorm:"primaryKey" json:"staff_member_id"`
	ServiceID     uint `gorm:"primaryKey" json:"service_id"`
}
