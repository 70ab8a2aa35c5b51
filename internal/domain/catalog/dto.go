package catalog

type NamedInput struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Abbreviation *string `json:"abbreviation" binding:"omitempty,max=20"`
}

type ProductInput struct {
	Name              string  `json:"name" binding:"required,max=200"`
	CategoryID        *int64  `json:"categoryId"`
	DefaultLocationID *int64  `json:"defaultLocationId"`
	DefaultUnitID     *int64  `json:"defaultUnitId"`
	Barcode           *string `json:"barcode" binding:"omitempty,max=64"`
	Notes             *string `json:"notes"`
}

type ProductFilter struct {
	Query      string
	CategoryID *int64
	Limit      int
	Offset     int
}

// ProductHit is the compact row returned by product search.
type ProductHit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
