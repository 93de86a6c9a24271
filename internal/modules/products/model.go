package products

import (
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
)

const Collection = "products"

// RibbonOutOfStock is the overloaded ribbon value that doubles as the
// availability state across the catalog.
const RibbonOutOfStock = "Out of Stock"

const (
	FilterAll        = "All"
	FilterInStock    = "In Stock"
	FilterOutOfStock = "Out of Stock"

	SortRelevant  = "Most Relevant"
	SortPriceLow  = "Price Lowest First"
	SortPriceHigh = "Price Highest First"
)

type Product struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	DiscountPrice float64  `json:"discountPrice"`
	Ribbon        string   `json:"ribbon"`
	Weight        string   `json:"weight"`
	Images        []string `json:"images"`
	Deleted       int      `json:"deleted"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

func (p Product) RecordID() string { return p.ID }

func (p Product) InStock() bool { return p.Ribbon != RibbonOutOfStock }

// Decode maps a raw document to a Product, filling the display defaults
// every screen relies on.
func Decode(d docstore.Document) Product {
	return Product{
		ID:            d.ID,
		Title:         d.Str("title", "-"),
		Subtitle:      d.Str("subtitle", ""),
		Description:   d.Str("description", ""),
		Price:         d.Num("price"),
		DiscountPrice: d.Num("discountPrice"),
		Ribbon:        d.Str("ribbon", ""),
		Weight:        d.Str("weight", "-"),
		Images:        d.Strings("images"),
		Deleted:       d.Flag01("deleted"),
		CreatedAt:     docstore.FormatTime(d.CreatedAt),
		UpdatedAt:     docstore.FormatTime(d.UpdatedAt),
	}
}

// Projection is the products screen view: search over title, ribbon and
// created date; stock filter derived from the ribbon; price sorts.
func Projection() liststate.Projection[Product] {
	return liststate.Projection[Product]{
		SearchText: func(p Product) []string {
			return []string{p.Title, p.Ribbon, p.CreatedAt}
		},
		Filters: map[string]func(Product) bool{
			FilterInStock:    func(p Product) bool { return p.InStock() },
			FilterOutOfStock: func(p Product) bool { return !p.InStock() },
		},
		Sorts: map[string]func(a, b Product) bool{
			SortPriceLow:  func(a, b Product) bool { return a.Price < b.Price },
			SortPriceHigh: func(a, b Product) bool { return a.Price > b.Price },
		},
	}
}
