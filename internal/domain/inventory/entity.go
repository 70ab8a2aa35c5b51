package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"pantry/internal/domain/catalog"
)

// Item is a quantity of one product held at a location.
type Item struct {
	ID         int64           `json:"id" gorm:"primaryKey"`
	OwnerID    int64           `json:"-" gorm:"not null;index"`
	ProductID  int64           `json:"productId" gorm:"not null;index"`
	LocationID *int64          `json:"locationId" gorm:"index"`
	UnitID     *int64          `json:"unitId"`
	Quantity   decimal.Decimal `json:"quantity" gorm:"type:decimal(12,3);not null"`
	ExpiresAt  *time.Time      `json:"expiresAt" gorm:"index"`
	Opened     bool            `json:"opened" gorm:"not null;default:false"`
	Notes      *string         `json:"notes" gorm:"type:text"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`

	Product  *catalog.Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Location *catalog.Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Unit     *catalog.Unit     `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

func (Item) TableName() string { return "inventory_items" }

func Models() []any {
	return []any{&Item{}}
}
