package domain

import "time"

// Review represents a storefront review; it stays hidden until approved
type Review struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `json:"name" form:"name"`
	Email     string    `gorm:"size:256" json:"email" form:"email"`
	Rating    int       `json:"rating" form:"rating"` // 1..5
	Content   string    `gorm:"type:text" json:"content" form:"content"`
	Approved  bool      `gorm:"index;default:false" json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Review) TableName() string {
	return "reviews"
}
