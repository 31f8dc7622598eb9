package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://localhost:5000"

func plainRow() Row {
	return Row{
		ID:           42,
		Name:         "Trail Runner",
		Description:  "Lightweight trail shoe",
		BasePrice:    100,
		ImageURL:     "/public/shoe.jpg",
		CategoryID:   1,
		CategoryName: "Running",
	}
}

func TestFromRowWithoutSpecialTypes(t *testing.T) {
	p := FromRow(plainRow(), baseURL)

	assert.Empty(t, p.Tags)
	assert.NotNil(t, p.Tags, "tags must serialize as [] rather than null")
	assert.Equal(t, 100.0, p.Price)
	assert.Nil(t, p.OriginalPrice)
	assert.Nil(t, p.ReleaseDate)
	assert.Nil(t, p.UnitsSold)
	assert.Equal(t, "Running", p.CategoryName)
}

func TestFromRowDealResolvesDiscountPrice(t *testing.T) {
	row := plainRow()
	discountPrice := 80.0
	discountPercent := 20.0
	row.IsDeal = true
	row.DiscountPrice = &discountPrice
	row.DiscountPercent = &discountPercent

	p := FromRow(row, baseURL)

	assert.Equal(t, []Tag{TagDeal}, p.Tags)
	assert.Equal(t, 80.0, p.Price)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, 100.0, *p.OriginalPrice)
	require.NotNil(t, p.DiscountPercent)
	assert.Equal(t, 20.0, *p.DiscountPercent)
}

func TestFromRowDealWithoutDiscountPriceKeepsBase(t *testing.T) {
	row := plainRow()
	row.IsDeal = true

	p := FromRow(row, baseURL)

	assert.Equal(t, 100.0, p.Price)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, 100.0, *p.OriginalPrice)
}

func TestFromRowNewArrivalCarriesReleaseDate(t *testing.T) {
	row := plainRow()
	release := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	row.IsNewArrival = true
	row.ReleaseDate = &release

	p := FromRow(row, baseURL)

	assert.Equal(t, []Tag{TagNewArrival}, p.Tags)
	require.NotNil(t, p.ReleaseDate)
	assert.Equal(t, release, *p.ReleaseDate)
	assert.Equal(t, 100.0, p.Price)
}

func TestFromRowBestSellerCarriesUnitsSold(t *testing.T) {
	row := plainRow()
	sold := 1500
	row.IsBestSeller = true
	row.UnitsSold = &sold

	p := FromRow(row, baseURL)

	assert.Equal(t, []Tag{TagBestSeller}, p.Tags)
	require.NotNil(t, p.UnitsSold)
	assert.Equal(t, 1500, *p.UnitsSold)
}

func TestFromRowCarriesMultipleTagsAtOnce(t *testing.T) {
	row := plainRow()
	sold := 900
	discountPrice := 80.0
	row.IsBestSeller = true
	row.UnitsSold = &sold
	row.IsDeal = true
	row.DiscountPrice = &discountPrice

	p := FromRow(row, baseURL)

	assert.ElementsMatch(t, []Tag{TagBestSeller, TagDeal}, p.Tags)
	assert.Equal(t, 80.0, p.Price)
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, 100.0, *p.OriginalPrice)
	require.NotNil(t, p.UnitsSold)
	assert.Equal(t, 900, *p.UnitsSold)
}

func TestFromRowNormalizesImageURL(t *testing.T) {
	row := plainRow()
	p := FromRow(row, baseURL)
	assert.Equal(t, "http://localhost:5000/public/shoe.jpg", p.ImageURL)
}

func TestFromRowsPreservesOrderAndCount(t *testing.T) {
	first := plainRow()
	second := plainRow()
	second.ID = 43
	second.Name = "Road Runner"

	products := FromRows([]Row{first, second}, baseURL)

	require.Len(t, products, 2)
	assert.Equal(t, uint(42), products[0].ID)
	assert.Equal(t, uint(43), products[1].ID)
}

func TestFromRowsEmptyInput(t *testing.T) {
	products := FromRows(nil, baseURL)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}
