package domain

import "time"

// Order status values
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

// Payment status values
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Order represents a customer purchase.
// TotalAmount = Subtotal + Tax - Discount, computed once at creation time.
// Line items snapshot pet data so the order stays readable after the pet
// record changes or is deleted.
type Order struct {
	ID            int64       `json:"id,string" form:"id"`
	OrderNo       string      `gorm:"size:32;uniqueIndex" json:"order_no"`
	CustomerId    int64       `gorm:"index" json:"customer_id,string" form:"customer_id"`
	Items         []OrderItem `gorm:"foreignKey:OrderId" json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Discount      float64     `json:"discount"`
	TotalAmount   float64     `json:"total_amount"`
	PaymentMethod string      `gorm:"size:32" json:"payment_method" form:"payment_method"`
	PaymentStatus string      `gorm:"size:20;default:'unpaid'" json:"payment_status" form:"payment_status"`
	Status        string      `gorm:"size:20;index;default:'Pending'" json:"status" form:"status"` // Pending|Processing|Completed|Cancelled
	Remark        string      `json:"remark" form:"remark"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a snapshot of a pet at order time
type OrderItem struct {
	ID         int64   `json:"id,string"`
	OrderId    int64   `gorm:"index" json:"order_id,string"`
	PetId      int64   `gorm:"index" json:"pet_id,string"`
	PetName    string  `gorm:"size:128" json:"pet_name"`
	PetSpecies string  `gorm:"size:64" json:"pet_species"`
	Price      float64 `json:"price"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}

// ValidOrderStatus reports whether s is a member of the order status domain.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}
