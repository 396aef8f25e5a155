package entity

import "github.com/shopspring/decimal"

// Product is one catalog entry.
type Product struct {
	ID          string          `json:"id"`
	ModelName   string          `json:"modelName"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	FinalPrice  decimal.Decimal `json:"finalPrice"`
	Off         decimal.Decimal `json:"off"`
	Images      []string        `json:"images"`
}
