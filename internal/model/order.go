package model

import "time"

// OrderStatusProcessing is the status every order starts in. Status only
// ever changes externally; the API itself never updates an order in place.
const OrderStatusProcessing = "Processing"

// Order is the header row created once at checkout.
type Order struct {
	ID              uint        `json:"id" gorm:"primarykey"`
	UserID          string      `json:"user_id" gorm:"type:varchar(100);not null;index"`
	ShippingAddress string      `json:"shipping_address" gorm:"type:text"`
	City            string      `json:"city" gorm:"type:varchar(100)"`
	PostalCode      string      `json:"postal_code" gorm:"type:varchar(20)"`
	Country         string      `json:"country" gorm:"type:varchar(100)"`
	Phone           string      `json:"phone" gorm:"type:varchar(30)"`
	ShippingMethod  string      `json:"shipping_method" gorm:"type:varchar(50);default:'standard'"`
	PaymentMethod   string      `json:"payment_method" gorm:"type:varchar(50);default:'cod'"`
	Subtotal        float64     `json:"subtotal" gorm:"default:0"`
	ShippingCost    float64     `json:"shipping_cost" gorm:"default:0"`
	Tax             float64     `json:"tax" gorm:"default:0"`
	Total           float64     `json:"total" gorm:"default:0"`
	Status          string      `json:"status" gorm:"type:varchar(30);default:'Processing'"`
	OrderDate       time.Time   `json:"order_date" gorm:"autoCreateTime"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots one cart line at time of purchase. Name, image and
// price are copied on purpose so the line survives later catalog edits.
type OrderItem struct {
	ID           uint    `json:"id" gorm:"primarykey"`
	OrderID      uint    `json:"order_id" gorm:"not null;index"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name" gorm:"type:varchar(255);default:'Unknown Product'"`
	ProductImage string  `json:"product_image" gorm:"type:varchar(255)"`
	Price        float64 `json:"price" gorm:"default:0"`
	Quantity     int     `json:"quantity" gorm:"default:1"`
	Source       string  `json:"source" gorm:"type:varchar(50);default:'unknown'"`
}

func (OrderItem) TableName() string { return "order_items" }
