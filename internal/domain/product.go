package domain

import (
	"math"
	"time"
)

// MinMyPrice is the lowest "my price" a user may set on a product. New
// products start at this value.
const MinMyPrice = 100

// MaxPrice is the largest price the INTEGER price columns can hold.
const MaxPrice = math.MaxInt32

// Product is an item a user tracks from the shopping search.
type Product struct {
	ID          string    `json:"id"`
	UserID      *string   `json:"user_id,omitempty"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Image       string    `json:"image"`
	LowestPrice int       `json:"lowest_price"`
	MyPrice     int       `json:"my_price"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
}

// OwnedBy reports whether the product belongs to userID. Ownerless products
// belong to nobody.
func (p *Product) OwnedBy(userID string) bool {
	return p.UserID != nil && *p.UserID == userID
}

// ApplyLookup overwrites the fields that come from an external lookup.
func (p *Product) ApplyLookup(item LookupItem, at time.Time) {
	p.Title = item.Title
	p.Link = item.Link
	p.LowestPrice = item.LowestPrice
	p.ModifiedAt = at
}

// sortColumns maps accepted sortBy values to product columns.
var sortColumns = map[string]string{
	"id":           "id",
	"title":        "title",
	"link":         "link",
	"lowestPrice":  "lowest_price",
	"lowest_price": "lowest_price",
	"myPrice":      "my_price",
	"my_price":     "my_price",
	"createdAt":    "created_at",
	"created_at":   "created_at",
	"modifiedAt":   "modified_at",
	"modified_at":  "modified_at",
}

// SortColumn resolves a sortBy request value to a column name. The boolean
// is false for fields outside the allowlist.
func SortColumn(sortBy string) (string, bool) {
	col, ok := sortColumns[sortBy]
	return col, ok
}
