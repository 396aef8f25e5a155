package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineItem is one normalised cart line. Price zero means the price is
// decided at checkout.
type CartLineItem struct {
	ID            string
	ProductID     string
	ModelName     string
	Image         string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Quantity      int
	Off           decimal.Decimal
	AddedAt       time.Time
}
