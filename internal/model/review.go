package model

import "time"

// Review holds one user's review of one product. The unique index on
// (user_id, product_id) is what backs the one-review-per-product rule.
type Review struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ProductID uint      `json:"product_id" gorm:"not null;index;uniqueIndex:idx_reviews_user_product"`
	UserID    string    `json:"user_id" gorm:"type:varchar(100);not null;uniqueIndex:idx_reviews_user_product"`
	Rating    int       `json:"rating" gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }
