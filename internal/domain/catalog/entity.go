package catalog

import "time"

type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	OwnerID   int64     `json:"-" gorm:"not null;uniqueIndex:idx_categories_owner_name"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_categories_owner_name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

type Location struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	OwnerID   int64     `json:"-" gorm:"not null;uniqueIndex:idx_locations_owner_name"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_locations_owner_name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Location) TableName() string { return "locations" }

type Store struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	OwnerID   int64     `json:"-" gorm:"not null;uniqueIndex:idx_stores_owner_name"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_stores_owner_name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Store) TableName() string { return "stores" }

type Unit struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	OwnerID      int64     `json:"-" gorm:"not null;uniqueIndex:idx_units_owner_name"`
	Name         string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_units_owner_name"`
	Abbreviation *string   `json:"abbreviation" gorm:"size:20"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Unit) TableName() string { return "units" }

// Label is the short form used when rendering quantities.
func (u Unit) Label() string {
	if u.Abbreviation != nil && *u.Abbreviation != "" {
		return *u.Abbreviation
	}
	return u.Name
}

type Product struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	OwnerID           int64     `json:"-" gorm:"not null;uniqueIndex:idx_products_owner_name"`
	Name              string    `json:"name" gorm:"size:200;not null;uniqueIndex:idx_products_owner_name"`
	CategoryID        *int64    `json:"categoryId" gorm:"index"`
	DefaultLocationID *int64    `json:"defaultLocationId"`
	DefaultUnitID     *int64    `json:"defaultUnitId"`
	Barcode           *string   `json:"barcode" gorm:"size:64;index"`
	Notes             *string   `json:"notes" gorm:"type:text"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Category        *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	DefaultLocation *Location `json:"defaultLocation,omitempty" gorm:"foreignKey:DefaultLocationID"`
	DefaultUnit     *Unit     `json:"defaultUnit,omitempty" gorm:"foreignKey:DefaultUnitID"`
}

func (Product) TableName() string { return "products" }

// Models lists the catalog tables in migration order.
func Models() []any {
	return []any{&Category{}, &Location{}, &Store{}, &Unit{}, &Product{}}
}
