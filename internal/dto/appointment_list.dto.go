package dto

import "time"

type AppointmentListDTO struct {
	ID            uint      `json:"id"`
	StaffMemberID uint      `json:"staff_member_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	IsDelivery    bool      `json:"is_delivery"`
	CustomerName  string    `json:"customer_name"`
	ServiceName   string    `json:"service_name"`
	StaffName     string    `json:"staff_name"`
}
