package domain

import "time"

// Appointment status values
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment represents a visit booked through the storefront or by staff
type Appointment struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `gorm:"index" json:"name" form:"name"`
	Email       string    `gorm:"size:256" json:"email" form:"email"`
	Phone       string    `gorm:"size:32" json:"phone" form:"phone"`
	PetId       int64     `gorm:"index" json:"pet_id,string" form:"pet_id"`
	ServiceType string    `gorm:"size:64" json:"service_type" form:"service_type"` // visit|grooming|checkup
	ScheduledAt time.Time `gorm:"index" json:"scheduled_at" form:"scheduled_at"`
	Status      string    `gorm:"size:20;index;default:'pending'" json:"status" form:"status"`
	Notes       string    `gorm:"type:text" json:"notes" form:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Appointment) TableName() string {
	return "appointments"
}
