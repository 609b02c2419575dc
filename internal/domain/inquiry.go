package domain

import "time"

// Inquiry status values
const (
	InquiryStatusNew     = "new"
	InquiryStatusReplied = "replied"
	InquiryStatusClosed  = "closed"
)

// Inquiry represents a storefront question about a pet
type Inquiry struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `json:"name" form:"name"`
	Email     string    `gorm:"size:256;index" json:"email" form:"email"`
	Phone     string    `gorm:"size:32" json:"phone" form:"phone"`
	PetId     int64     `gorm:"index" json:"pet_id,string" form:"pet_id"`
	Message   string    `gorm:"type:text" json:"message" form:"message"`
	Status    string    `gorm:"size:20;index;default:'new'" json:"status" form:"status"` // new|replied|closed
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Inquiry) TableName() string {
	return "inquiries"
}
