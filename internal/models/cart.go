package models

import "time"

// CartLine is one product a buyer has put in their cart.
type CartLine struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID   string    `json:"owner_id" gorm:"uniqueIndex:idx_cart_owner_product;type:varchar(64);not null"`
	ProductID string    `json:"product_id" gorm:"uniqueIndex:idx_cart_owner_product;type:varchar(36);not null"`
	Quantity  int       `json:"quantity" gorm:"not null" validate:"gte=1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartLine) TableName() string {
	return "cart_items"
}

// CartSnapshotLine is a cart line joined with the product as it was read.
type CartSnapshotLine struct {
	CartLine
	Product Product `json:"product"`
}

// Subtotal uses the live product price captured in the snapshot.
func (l CartSnapshotLine) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// CartSnapshot is a point-in-time read of a buyer's cart.
type CartSnapshot struct {
	OwnerID    string             `json:"owner_id"`
	Items      []CartSnapshotLine `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice int64              `json:"total_price"`
	CapturedAt time.Time          `json:"captured_at"`
}

// IsEmpty reports whether the snapshot has no lines.
func (s *CartSnapshot) IsEmpty() bool {
	return len(s.Items) == 0
}
