package recipe

import (
	"time"

	"gorm.io/gorm"

	"pantry/internal/domain/catalog"
)

const (
	TypeItem    = "ITEM"
	TypeHeading = "HEADING"

	LinkLinked  = "linked"
	LinkPending = "pending"
)

// Recipe is the aggregate root; ingredients, steps and tag links live and die with it.
// A nil OwnerID marks a recipe visible to every user.
type Recipe struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	OwnerID           *int64    `json:"ownerId" gorm:"uniqueIndex:idx_recipes_owner_slug"`
	Title             string    `json:"title" gorm:"size:300;not null"`
	Slug              string    `json:"slug" gorm:"size:120;not null;uniqueIndex:idx_recipes_owner_slug"`
	SourceURL         *string   `json:"sourceUrl" gorm:"type:text"`
	Description       *string   `json:"description" gorm:"type:text"`
	Servings          *int      `json:"servings"`
	Yields            *string   `json:"yields" gorm:"size:100"`
	Favorite          bool      `json:"favorite" gorm:"not null;default:false"`
	ImageURL          *string   `json:"imageUrl" gorm:"type:text"`
	CourseID          *int64    `json:"courseId"`
	CuisineID         *int64    `json:"cuisineId"`
	KeyIngredientID   *int64    `json:"keyIngredientId"`
	KeyIngredientText *string   `json:"keyIngredientText" gorm:"size:200"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Course        *Course          `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Cuisine       *Cuisine         `json:"cuisine,omitempty" gorm:"foreignKey:CuisineID"`
	KeyIngredient *catalog.Product `json:"keyIngredient,omitempty" gorm:"foreignKey:KeyIngredientID"`
	Tags          []Tag            `json:"tags" gorm:"many2many:recipe_tags;joinForeignKey:RecipeID;joinReferences:TagID"`
	Ingredients   []Ingredient     `json:"ingredients" gorm:"foreignKey:RecipeID"`
	Steps         []Step           `json:"steps" gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string { return "recipes" }

type Ingredient struct {
	ID            int64   `json:"id" gorm:"primaryKey"`
	RecipeID      int64   `json:"recipeId" gorm:"not null;index"`
	Idx           int     `json:"idx" gorm:"not null"`
	Type          string  `json:"type" gorm:"size:10;not null"`
	Amount        *string `json:"amount" gorm:"size:50"`
	UnitID        *int64  `json:"unitId"`
	ProductID     *int64  `json:"productId" gorm:"index"`
	Name          *string `json:"name" gorm:"size:200"`
	Notes         *string `json:"notes" gorm:"type:text"`
	Heading       *string `json:"heading" gorm:"size:200"`
	RawText       string  `json:"rawText" gorm:"type:text;not null"`
	LinkStatus    string  `json:"linkStatus" gorm:"size:10"`
	CandidateName *string `json:"candidateName" gorm:"size:200"`

	Unit    *catalog.Unit    `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
	Product *catalog.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (Ingredient) TableName() string { return "recipe_ingredients" }

type Step struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	RecipeID int64  `json:"recipeId" gorm:"not null;index"`
	Idx      int    `json:"idx" gorm:"not null"`
	Body     string `json:"body" gorm:"type:text;not null"`
}

func (Step) TableName() string { return "recipe_steps" }

type Course struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	OwnerID   *int64    `json:"ownerId" gorm:"uniqueIndex:idx_courses_owner_name"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_courses_owner_name"`
	CreatedAt time.Time `json:"-"`
}

func (Course) TableName() string { return "courses" }

type Cuisine struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	OwnerID   *int64    `json:"ownerId" gorm:"uniqueIndex:idx_cuisines_owner_name"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_cuisines_owner_name"`
	CreatedAt time.Time `json:"-"`
}

func (Cuisine) TableName() string { return "cuisines" }

type Tag struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	OwnerID   *int64    `json:"ownerId" gorm:"uniqueIndex:idx_tags_owner_name"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_tags_owner_name"`
	CreatedAt time.Time `json:"-"`
}

func (Tag) TableName() string { return "tags" }

type RecipeTag struct {
	RecipeID int64 `gorm:"primaryKey"`
	TagID    int64 `gorm:"primaryKey;index"`
}

func (RecipeTag) TableName() string { return "recipe_tags" }

// SetupJoinTables must run before AutoMigrate so the recipe_tags table uses RecipeTag.
func SetupJoinTables(db *gorm.DB) error {
	return db.SetupJoinTable(&Recipe{}, "Tags", &RecipeTag{})
}

func Models() []any {
	return []any{&Course{}, &Cuisine{}, &Tag{}, &Recipe{}, &RecipeTag{}, &Ingredient{}, &Step{}}
}
