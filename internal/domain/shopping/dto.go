package shopping

import "github.com/shopspring/decimal"

// ItemInput creates or replaces a list entry. Name may be left blank when
// ProductID is set; the product name is used instead.
type ItemInput struct {
	ProductID *int64              `json:"productId"`
	Name      string              `json:"name" binding:"max=200"`
	Quantity  decimal.NullDecimal `json:"quantity"`
	UnitID    *int64              `json:"unitId"`
	StoreID   *int64              `json:"storeId"`
	Checked   bool                `json:"checked"`
	Notes     *string             `json:"notes"`
}

type Filter struct {
	StoreID *int64
	Checked *bool
}

type CheckoutRequest struct {
	LocationID *int64 `json:"locationId"`
}

type CheckoutResult struct {
	Moved   int `json:"moved"`
	Removed int `json:"removed"`
}
