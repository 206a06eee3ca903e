package model

import "time"

// Sale records a transaction against an Item. TotalPrice snapshots the item
// price at the time the sale was recorded; later price edits do not change it.
type Sale struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ItemID     uint      `json:"itemId" gorm:"index;not null"`
	Item       *Item     `json:"item,omitempty"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	TotalPrice float64   `json:"totalPrice" gorm:"not null"`
	Customer   string    `json:"customer" gorm:"type:varchar(255)"`
	Date       time.Time `json:"date" gorm:"not null;index"`
	CreatedBy  *uint     `json:"createdBy,omitempty" gorm:"index"`
	Creator    *User     `json:"-" gorm:"foreignKey:CreatedBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
