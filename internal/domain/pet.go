package domain

import "time"

// Pet status values
const (
	PetStatusAvailable = "available"
	PetStatusSold      = "sold"
	PetStatusReserved  = "reserved"
	PetStatusAdopted   = "adopted"
)

// Pet represents an animal listed in the shop catalog
type Pet struct {
	ID          int64     `json:"id,string" form:"id"`
	Name        string    `gorm:"index" json:"name" form:"name"`
	Species     string    `gorm:"size:64;index" json:"species" form:"species"`
	Breed       string    `gorm:"size:128" json:"breed" form:"breed"`
	AgeMonths   int       `json:"age_months" form:"age_months"`
	Gender      string    `gorm:"size:16" json:"gender" form:"gender"`
	Price       float64   `json:"price" form:"price"`
	Status      string    `gorm:"size:20;index;default:'available'" json:"status" form:"status"` // available|sold|reserved|adopted
	Vaccinated  bool      `json:"vaccinated" form:"vaccinated"`
	Neutered    bool      `json:"neutered" form:"neutered"`
	Description string    `gorm:"type:text" json:"description" form:"description"`
	Image       string    `gorm:"size:1024" json:"image" form:"image"` // URL to pet image (optional)
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Pet) TableName() string {
	return "pets"
}
