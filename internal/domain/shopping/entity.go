package shopping

import (
	"time"

	"github.com/shopspring/decimal"

	"pantry/internal/domain/catalog"
)

type Item struct {
	ID        int64               `json:"id" gorm:"primaryKey"`
	OwnerID   int64               `json:"-" gorm:"not null;index"`
	ProductID *int64              `json:"productId" gorm:"index"`
	Name      string              `json:"name" gorm:"size:200;not null"`
	Quantity  decimal.NullDecimal `json:"quantity" gorm:"type:decimal(12,3)"`
	UnitID    *int64              `json:"unitId"`
	StoreID   *int64              `json:"storeId" gorm:"index"`
	Checked   bool                `json:"checked" gorm:"not null;default:false"`
	Notes     *string             `json:"notes" gorm:"type:text"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`

	Product *catalog.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Unit    *catalog.Unit    `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	Store   *catalog.Store   `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

func (Item) TableName() string { return "shopping_items" }

func Models() []any {
	return []any{&Item{}}
}
