package catalog

import "time"

// Tag is one of the closed set of special classifications a product may
// carry. A product holds zero or more of them at the same time.
type Tag string

const (
	TagNewArrival Tag = "new_arrival"
	TagBestSeller Tag = "best_seller"
	TagDeal       Tag = "deal"
)

// Row is the flat scan target for the product join: the base product row,
// its category name and the optional special-type columns. The boolean
// flags are COALESCEd to false in the query so a missing side row reads
// as "no tags".
type Row struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	BasePrice       float64    `json:"base_price"`
	ImageURL        string     `json:"image_url"`
	CategoryID      uint       `json:"category_id"`
	CategoryName    string     `json:"category_name"`
	IsNewArrival    bool       `json:"is_new_arrival"`
	IsBestSeller    bool       `json:"is_best_seller"`
	IsDeal          bool       `json:"is_deal"`
	UnitsSold       *int       `json:"units_sold"`
	ReleaseDate     *time.Time `json:"release_date"`
	DiscountPrice   *float64   `json:"discount_price"`
	DiscountPercent *float64   `json:"discount_percent"`
}

// Product is the unified representation served to the storefront,
// regardless of how many special-type flags are set.
type Product struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"image_url"`
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Tags         []Tag   `json:"tags"`

	// Populated only for the matching tag
	ReleaseDate     *time.Time `json:"release_date,omitempty"`
	UnitsSold       *int       `json:"units_sold,omitempty"`
	OriginalPrice   *float64   `json:"original_price,omitempty"`
	DiscountPrice   *float64   `json:"discount_price,omitempty"`
	DiscountPercent *float64   `json:"discount_percent,omitempty"`

	// Populated only on the single-product endpoint
	AverageRating *float64 `json:"average_rating,omitempty"`
	ReviewCount   *int64   `json:"review_count,omitempty"`
}

// FromRow builds the aggregated product from a join row. The price
// resolves to the deal discount price when the deal flag is set,
// otherwise the base price. Image paths are normalized against baseURL.
func FromRow(row Row, baseURL string) Product {
	p := Product{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		Price:        row.BasePrice,
		ImageURL:     AbsoluteImageURL(baseURL, row.ImageURL),
		CategoryID:   row.CategoryID,
		CategoryName: row.CategoryName,
		Tags:         []Tag{},
	}

	if row.IsNewArrival {
		p.ReleaseDate = row.ReleaseDate
		p.Tags = append(p.Tags, TagNewArrival)
	}
	if row.IsBestSeller {
		p.UnitsSold = row.UnitsSold
		p.Tags = append(p.Tags, TagBestSeller)
	}
	if row.IsDeal {
		original := row.BasePrice
		p.OriginalPrice = &original
		p.DiscountPrice = row.DiscountPrice
		p.DiscountPercent = row.DiscountPercent
		if row.DiscountPrice != nil {
			p.Price = *row.DiscountPrice
		}
		p.Tags = append(p.Tags, TagDeal)
	}

	return p
}

// FromRows aggregates a slice of join rows.
func FromRows(rows []Row, baseURL string) []Product {
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, FromRow(row, baseURL))
	}
	return products
}
