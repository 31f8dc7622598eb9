package model

import "time"

// Category is immutable reference data provisioned by the seed process.
type Category struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url" gorm:"type:varchar(255)"`
}

func (Category) TableName() string { return "categories" }

// Product is the master row for one sellable item. Pricing and imagery
// here are the live catalog values; order line items snapshot their own.
type Product struct {
	ID          uint    `json:"id" gorm:"primarykey"`
	Name        string  `json:"name" gorm:"type:varchar(255);not null"`
	Description string  `json:"description" gorm:"type:text"`
	BasePrice   float64 `json:"base_price" gorm:"not null"`
	ImageURL    string  `json:"image_url" gorm:"type:varchar(255)"`
	CategoryID  uint    `json:"category_id" gorm:"not null;index"`
}

func (Product) TableName() string { return "products" }

// ProductSpecialType is the optional 1:1 side row marking a product as a
// new arrival, best seller and/or deal. Any subset of the flags may be
// set at once; absence of the row means none apply.
type ProductSpecialType struct {
	ProductID       uint       `json:"product_id" gorm:"primarykey"`
	IsNewArrival    bool       `json:"is_new_arrival" gorm:"default:false"`
	IsBestSeller    bool       `json:"is_best_seller" gorm:"default:false"`
	IsDeal          bool       `json:"is_deal" gorm:"default:false"`
	UnitsSold       *int       `json:"units_sold,omitempty"`
	ReleaseDate     *time.Time `json:"release_date,omitempty" gorm:"type:date"`
	DiscountPrice   *float64   `json:"discount_price,omitempty"`
	DiscountPercent *float64   `json:"discount_percent,omitempty"`
}

func (ProductSpecialType) TableName() string { return "product_special_types" }
