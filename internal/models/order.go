package models

import "time"

// OrderStatus is the lifecycle state of an order, stored and sent as a lowercase string.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsFinal reports whether payment reconciliation may no longer move the order.
// Shipped and delivered orders were confirmed earlier, so they count as final here.
func (s OrderStatus) IsFinal() bool {
	return s != OrderStatusPending
}

func (s OrderStatus) String() string {
	return string(s)
}

// ShippingAddress is the delivery destination captured with an order.
type ShippingAddress struct {
	Name          string `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Phone         string `json:"phone" gorm:"type:varchar(20)" validate:"required,min=7,max=20"`
	PostalCode    string `json:"postal_code" gorm:"type:varchar(10)" validate:"required,max=10"`
	Address       string `json:"address" gorm:"type:varchar(255)" validate:"required,max=255"`
	AddressDetail string `json:"address_detail,omitempty" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
}

// Order is an order header. Lines are stored separately in order_items.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID         string          `json:"owner_id" gorm:"index;type:varchar(64);not null"`
	TotalAmount     int64           `json:"total_amount" gorm:"not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(16);index;not null"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	Note            string          `json:"note,omitempty" gorm:"type:text"`
	Lines           []OrderLine     `json:"items,omitempty" gorm:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderLine is a product row of an order with name and price frozen at order time.
type OrderLine struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string    `json:"order_id" gorm:"index;type:varchar(36);not null"`
	Position    int       `json:"position" gorm:"not null"`
	ProductID   string    `json:"product_id" gorm:"type:varchar(36);not null"`
	ProductName string    `json:"product_name" gorm:"type:varchar(100);not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   int64     `json:"unit_price" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (OrderLine) TableName() string {
	return "order_items"
}

// Subtotal is the line's contribution to the order total.
func (l OrderLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// OrderEvent is published to the broker whenever an order changes state.
type OrderEvent struct {
	Type        string      `json:"type"`
	OrderID     string      `json:"order_id"`
	OwnerID     string      `json:"owner_id"`
	Status      OrderStatus `json:"status"`
	TotalAmount int64       `json:"total_amount"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

const (
	EventOrderCreated   = "order.created"
	EventOrderConfirmed = "order.confirmed"
	EventOrderCancelled = "order.cancelled"
)
