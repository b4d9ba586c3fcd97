package models

import "time"

// Product represents a catalog entry. Prices are integer amounts in the store currency.
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string    `json:"name" gorm:"type:varchar(100);not null"`
	Description   string    `json:"description,omitempty" gorm:"type:text"`
	Price         int64     `json:"price" gorm:"not null"`
	Category      string    `json:"category,omitempty" gorm:"type:varchar(50);index"`
	StockQuantity int       `json:"stock_quantity" gorm:"not null"`
	IsActive      bool      `json:"is_active" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
