package models

import "time"

// OrderItem represents a single line item within an order. Name and Price
// are denormalized at checkout so later catalog edits do not rewrite history.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string  `json:"-" gorm:"type:varchar(36);index"`
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	Price     float64 `json:"price" validate:"gte=0"` // Price at the time of order
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
}

// ShippingAddress is embedded in the order document. State is optional,
// the rest is required at checkout.
type ShippingAddress struct {
	Street  string `json:"street" gorm:"column:ship_street" validate:"required"`
	City    string `json:"city" gorm:"column:ship_city" validate:"required"`
	State   string `json:"state,omitempty" gorm:"column:ship_state"`
	Zip     string `json:"zip" gorm:"column:ship_zip" validate:"required"`
	Country string `json:"country" gorm:"column:ship_country" validate:"required"`
}

// Order represents a customer order. ClientName and ClientEmail are
// denormalized from the purchasing user at creation time.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"type:varchar(36);index"`
	ClientName      string          `json:"client_name"`
	ClientEmail     string          `json:"client_email"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     float64         `json:"total_amount"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentProof    string          `json:"payment_proof,omitempty"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(16)"`
	DeliveryStatus  DeliveryStatus  `json:"delivery_status" gorm:"type:varchar(16)"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
