package catalog

import (
	"gorm.io/gorm"
)

// listLimit caps the special-type listing endpoints. These feed fixed
// storefront rails, so there is no pagination beyond the cap.
const listLimit = 20

const rowSelect = `
	p.id, p.name, p.description, p.base_price, p.image_url, p.category_id,
	c.name AS category_name,
	COALESCE(ps.is_new_arrival, false) AS is_new_arrival,
	COALESCE(ps.is_best_seller, false) AS is_best_seller,
	COALESCE(ps.is_deal, false) AS is_deal,
	ps.units_sold, ps.release_date, ps.discount_price, ps.discount_percent`

func joined(db *gorm.DB) *gorm.DB {
	return db.Table("products AS p").
		Select(rowSelect).
		Joins("JOIN categories c ON p.category_id = c.id").
		Joins("LEFT JOIN product_special_types ps ON p.id = ps.product_id")
}

// ProductByID fetches the join row for one product. Returns
// gorm.ErrRecordNotFound when the id does not resolve.
func ProductByID(db *gorm.DB, id uint) (Row, error) {
	var row Row
	result := joined(db).Where("p.id = ?", id).Limit(1).Scan(&row)
	if result.Error != nil {
		return Row{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Row{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

// ProductsByCategory fetches the join rows for every product in a
// category, uncapped.
func ProductsByCategory(db *gorm.DB, categoryID uint) ([]Row, error) {
	var rows []Row
	result := joined(db).Where("p.category_id = ?", categoryID).Scan(&rows)
	return rows, result.Error
}

// NewArrivals fetches the newest-first new-arrival rail.
func NewArrivals(db *gorm.DB) ([]Row, error) {
	var rows []Row
	result := joined(db).
		Where("ps.is_new_arrival = ?", true).
		Order("ps.release_date DESC").
		Limit(listLimit).
		Scan(&rows)
	return rows, result.Error
}

// BestSellers fetches the best-seller rail ordered by units sold.
func BestSellers(db *gorm.DB) ([]Row, error) {
	var rows []Row
	result := joined(db).
		Where("ps.is_best_seller = ?", true).
		Order("ps.units_sold DESC").
		Limit(listLimit).
		Scan(&rows)
	return rows, result.Error
}

// Deals fetches the deals rail ordered by steepest discount.
func Deals(db *gorm.DB) ([]Row, error) {
	var rows []Row
	result := joined(db).
		Where("ps.is_deal = ?", true).
		Order("ps.discount_percent DESC").
		Limit(listLimit).
		Scan(&rows)
	return rows, result.Error
}

// RatingSummary computes the mean rating and review count for a product.
// Products with no reviews report a zero average.
func RatingSummary(db *gorm.DB, productID uint) (float64, int64, error) {
	var summary struct {
		AverageRating float64
		ReviewCount   int64
	}
	result := db.Table("reviews").
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS review_count").
		Where("product_id = ?", productID).
		Scan(&summary)
	if result.Error != nil {
		return 0, 0, result.Error
	}
	return summary.AverageRating, summary.ReviewCount, nil
}
