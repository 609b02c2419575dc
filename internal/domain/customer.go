package domain

import "time"

// Customer represents a shop customer record.
// TotalPurchases and TotalSpent are denormalized counters maintained by the
// order status transition rule: they always equal the count of this
// customer's completed orders and the sum of their total amounts.
type Customer struct {
	ID             int64     `json:"id,string" form:"id"`
	Name           string    `gorm:"index" json:"name" form:"name"`
	Email          string    `gorm:"size:256;uniqueIndex" json:"email" form:"email"`
	Phone          string    `gorm:"size:32" json:"phone" form:"phone"`
	Address        string    `json:"address" form:"address"`
	Remark         string    `json:"remark" form:"remark"`
	TotalPurchases int64     `json:"total_purchases"`
	TotalSpent     float64   `json:"total_spent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "customers"
}
