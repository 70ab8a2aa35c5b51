package recipe

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// withRelations preloads everything a full recipe response carries.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Course").
		Preload("Cuisine").
		Preload("KeyIngredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("idx ASC") }).
		Preload("Ingredients.Unit").
		Preload("Ingredients.Product").
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("idx ASC") })
}

// GetVisible loads a recipe the caller owns or a global one.
func (r *Repository) GetVisible(ctx context.Context, ownerID *int64, id int64) (*Recipe, error) {
	var rec Recipe
	err := withRelations(visibleTo(r.db.WithContext(ctx), ownerID)).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// GetBySlug prefers the caller's own recipe over a global one with the same slug.
func (r *Repository) GetBySlug(ctx context.Context, ownerID *int64, slug string) (*Recipe, error) {
	var rec Recipe
	err := withRelations(visibleTo(r.db.WithContext(ctx), ownerID)).
		Where("slug = ?", slug).
		Order("CASE WHEN owner_id IS NULL THEN 1 ELSE 0 END").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) List(ctx context.Context, ownerID *int64, f ListFilter) ([]Recipe, int64, error) {
	q := visibleTo(r.db.WithContext(ctx).Model(&Recipe{}), ownerID)

	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+term+"%")
	}
	if tag := strings.ToLower(strings.TrimSpace(f.Tag)); tag != "" {
		q = q.Where("id IN (?)", r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("LOWER(tags.name) = ?", tag))
	}
	if course := strings.ToLower(strings.TrimSpace(f.Course)); course != "" {
		q = q.Where("course_id IN (?)", r.db.Model(&Course{}).Select("id").Where("LOWER(name) = ?", course))
	}
	if cuisine := strings.ToLower(strings.TrimSpace(f.Cuisine)); cuisine != "" {
		q = q.Where("cuisine_id IN (?)", r.db.Model(&Cuisine{}).Select("id").Where("LOWER(name) = ?", cuisine))
	}
	if f.Favorite != nil {
		q = q.Where("favorite = ?", *f.Favorite)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var recipes []Recipe
	err := q.Preload("Course").Preload("Cuisine").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Order("title ASC").Order("id ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// GetOwned loads a recipe row without relations, only if the caller owns it.
func (r *Repository) GetOwned(ctx context.Context, ownerID *int64, id int64) (*Recipe, error) {
	var rec Recipe
	err := scopeOwner(r.db.WithContext(ctx).Where("id = ?", id), ownerID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Delete removes the recipe with its tag links, ingredients and steps.
func (r *Repository) Delete(ctx context.Context, ownerID *int64, id int64) (*Recipe, error) {
	var rec Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scopeOwner(tx.Where("id = ?", id), ownerID).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		for _, child := range []any{&RecipeTag{}, &Ingredient{}, &Step{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&Recipe{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) UpdateColumn(ctx context.Context, ownerID *int64, id int64, column string, value any) error {
	res := scopeOwner(r.db.WithContext(ctx).Model(&Recipe{}).Where("id = ?", id), ownerID).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkIngredient points an item row at a product, or back to pending when productID is nil.
func (r *Repository) LinkIngredient(ctx context.Context, recipeID, ingredientID int64, productID *int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Ingredient
		err := tx.Where("id = ? AND recipe_id = ?", ingredientID, recipeID).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIngredientNotFound
			}
			return err
		}
		if row.Type == TypeHeading {
			return ErrNotLinkable
		}

		status := LinkPending
		if productID != nil {
			status = LinkLinked
		}
		return tx.Model(&Ingredient{}).Where("id = ?", row.ID).Updates(map[string]any{
			"product_id":  productID,
			"link_status": status,
		}).Error
	})
}

func (r *Repository) Taxonomy(ctx context.Context, ownerID *int64) (*Taxonomy, error) {
	db := r.db.WithContext(ctx)
	t := &Taxonomy{Courses: []Course{}, Cuisines: []Cuisine{}, Tags: []Tag{}}

	if err := visibleTo(db, ownerID).Order("name ASC").Find(&t.Courses).Error; err != nil {
		return nil, err
	}
	if err := visibleTo(db, ownerID).Order("name ASC").Find(&t.Cuisines).Error; err != nil {
		return nil, err
	}
	if err := visibleTo(db, ownerID).Order("name ASC").Find(&t.Tags).Error; err != nil {
		return nil, err
	}
	return t, nil
}
