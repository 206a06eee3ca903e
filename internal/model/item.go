package model

import "time"

// Item represents a stock-keeping unit. Quantity is only guarded by the sale
// handlers; the schema itself does not reject negative values.
type Item struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Category    string    `json:"category" gorm:"type:varchar(100)"`
	Description string    `json:"description" gorm:"type:text"`
	BatchNo     string    `json:"batchNo" gorm:"type:varchar(100)"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0"`
	Price       float64   `json:"price" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
