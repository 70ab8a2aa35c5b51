package recipe

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"pantry/internal/pkg/utils"
)

type taxonomyEntity interface {
	Course | Cuisine | Tag
}

type taxonomyPtr[T taxonomyEntity] interface {
	*T
	init(ownerID *int64, name string)
	key() int64
}

func (c *Course) init(ownerID *int64, name string)  { c.OwnerID, c.Name = ownerID, name }
func (c *Cuisine) init(ownerID *int64, name string) { c.OwnerID, c.Name = ownerID, name }
func (t *Tag) init(ownerID *int64, name string)     { t.OwnerID, t.Name = ownerID, name }

func (c *Course) key() int64  { return c.ID }
func (c *Cuisine) key() int64 { return c.ID }
func (t *Tag) key() int64     { return t.ID }

// findOrCreate returns the id of the row named name under the owner, creating it
// when absent. A blank name yields nil and writes nothing.
func findOrCreate[T taxonomyEntity, PT taxonomyPtr[T]](tx *gorm.DB, ownerID *int64, name string) (*int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	id, err := lookupName[T, PT](tx, ownerID, name)
	if err == nil {
		return &id, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// A concurrent writer may insert the same name first; the savepoint keeps
	// the surrounding transaction usable so the winner can be re-read.
	const savepoint = "taxonomy_insert"
	if err := tx.SavePoint(savepoint).Error; err != nil {
		return nil, err
	}

	var row T
	PT(&row).init(ownerID, name)
	if err := tx.Create(&row).Error; err != nil {
		if !utils.IsUniqueViolation(err) {
			return nil, err
		}
		if err := tx.RollbackTo(savepoint).Error; err != nil {
			return nil, err
		}
		id, err := lookupName[T, PT](tx, ownerID, name)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}

	id = PT(&row).key()
	return &id, nil
}

func lookupName[T taxonomyEntity, PT taxonomyPtr[T]](tx *gorm.DB, ownerID *int64, name string) (int64, error) {
	var row T
	if err := scopeOwner(tx.Where("name = ?", name), ownerID).First(&row).Error; err != nil {
		return 0, err
	}
	return PT(&row).key(), nil
}

// resolveTagIDs maps names to ids in input order, skipping blanks. Repeated
// names resolve to the same id.
func resolveTagIDs(tx *gorm.DB, ownerID *int64, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := findOrCreate[Tag](tx, ownerID, name)
		if err != nil {
			return nil, err
		}
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids, nil
}

// resolveTaxonomyID prefers an explicit id, which must be visible to the owner,
// then falls back to find-or-create by name.
func resolveTaxonomyID[T taxonomyEntity, PT taxonomyPtr[T]](tx *gorm.DB, ownerID *int64, id *int64, name *string) (*int64, error) {
	if id != nil {
		var count int64
		err := visibleTo(tx.Model(new(T)), ownerID).Where("id = ?", *id).Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrInvalidReference
		}
		return id, nil
	}
	if name == nil {
		return nil, nil
	}
	return findOrCreate[T, PT](tx, ownerID, *name)
}

// visibleTo matches the owner's rows plus global ones.
func visibleTo(db *gorm.DB, ownerID *int64) *gorm.DB {
	if ownerID == nil {
		return db.Where("owner_id IS NULL")
	}
	return db.Where("(owner_id = ? OR owner_id IS NULL)", *ownerID)
}
