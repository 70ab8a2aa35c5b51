package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemInput struct {
	ProductID  int64           `json:"productId" binding:"required"`
	LocationID *int64          `json:"locationId"`
	UnitID     *int64          `json:"unitId"`
	Quantity   decimal.Decimal `json:"quantity"`
	ExpiresAt  *time.Time      `json:"expiresAt"`
	Opened     bool            `json:"opened"`
	Notes      *string         `json:"notes"`
}

type ConsumeRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type ConsumeResult struct {
	Item    *Item `json:"item"`
	Deleted bool  `json:"deleted"`
}

type Filter struct {
	LocationID         *int64
	ProductID          *int64
	ExpiringWithinDays *int
}

// Receipt describes stock arriving from outside, e.g. a shopping checkout.
type Receipt struct {
	ProductID  int64
	LocationID *int64
	UnitID     *int64
	Quantity   decimal.Decimal
}
