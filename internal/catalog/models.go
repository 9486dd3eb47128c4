package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Size string

const (
	SizeS Size = "S"
	SizeM Size = "M"
	SizeL Size = "L"
)

var Sizes = []Size{SizeS, SizeM, SizeL}

func (s Size) Valid() bool {
	switch s {
	case SizeS, SizeM, SizeL:
		return true
	}
	return false
}

func ParseSize(s string) (Size, bool) {
	sz := Size(s)
	return sz, sz.Valid()
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    *string         `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    *string         `json:"category,omitempty"`
}

// ProductPatch carries only the fields to change.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

type StockLevel struct {
	ProductID  int64 `json:"product_id"`
	Size       Size  `json:"size"`
	StockCount int   `json:"stock_count"`
}
