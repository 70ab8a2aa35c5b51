package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"pantry/internal/pkg/utils"
)

type namedEntity interface {
	Category | Location | Store | Unit
}

type namedPtr[T namedEntity] interface {
	*T
	apply(owner int64, in NamedInput)
}

func (c *Category) apply(owner int64, in NamedInput) {
	c.OwnerID = owner
	c.Name = strings.TrimSpace(in.Name)
}

func (l *Location) apply(owner int64, in NamedInput) {
	l.OwnerID = owner
	l.Name = strings.TrimSpace(in.Name)
}

func (s *Store) apply(owner int64, in NamedInput) {
	s.OwnerID = owner
	s.Name = strings.TrimSpace(in.Name)
}

func (u *Unit) apply(owner int64, in NamedInput) {
	u.OwnerID = owner
	u.Name = strings.TrimSpace(in.Name)
	u.Abbreviation = utils.TrimmedOrNil(in.Abbreviation)
}

// ref is a nullable column elsewhere in the schema that points at a named entity.
type ref struct {
	table  string
	column string
}

// NamedService is the CRUD shared by categories, locations, stores and units.
type NamedService[T namedEntity, PT namedPtr[T]] struct {
	db   *gorm.DB
	refs []ref
}

func NewCategoryService(db *gorm.DB) *NamedService[Category, *Category] {
	return &NamedService[Category, *Category]{db: db, refs: []ref{
		{"products", "category_id"},
	}}
}

func NewLocationService(db *gorm.DB) *NamedService[Location, *Location] {
	return &NamedService[Location, *Location]{db: db, refs: []ref{
		{"products", "default_location_id"},
		{"inventory_items", "location_id"},
	}}
}

func NewStoreService(db *gorm.DB) *NamedService[Store, *Store] {
	return &NamedService[Store, *Store]{db: db, refs: []ref{
		{"shopping_items", "store_id"},
	}}
}

func NewUnitService(db *gorm.DB) *NamedService[Unit, *Unit] {
	return &NamedService[Unit, *Unit]{db: db, refs: []ref{
		{"products", "default_unit_id"},
		{"inventory_items", "unit_id"},
		{"shopping_items", "unit_id"},
		{"recipe_ingredients", "unit_id"},
	}}
}

func (s *NamedService[T, PT]) List(ctx context.Context, ownerID int64) ([]T, error) {
	var rows []T
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (s *NamedService[T, PT]) Get(ctx context.Context, ownerID, id int64) (*T, error) {
	return s.find(s.db.WithContext(ctx), ownerID, id)
}

func (s *NamedService[T, PT]) Create(ctx context.Context, ownerID int64, in NamedInput) (*T, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}

	var row T
	PT(&row).apply(ownerID, in)
	if err := s.save(s.db.WithContext(ctx), &row, true); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *NamedService[T, PT]) Update(ctx context.Context, ownerID, id int64, in NamedInput) (*T, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}

	db := s.db.WithContext(ctx)
	row, err := s.find(db, ownerID, id)
	if err != nil {
		return nil, err
	}

	PT(row).apply(ownerID, in)
	if err := s.save(db, row, false); err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes the row and clears every column that pointed at it.
func (s *NamedService[T, PT]) Delete(ctx context.Context, ownerID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, ownerID, id)
		if err != nil {
			return err
		}

		for _, r := range s.refs {
			if !tx.Migrator().HasTable(r.table) {
				continue
			}
			if err := tx.Table(r.table).Where(r.column+" = ?", id).Update(r.column, nil).Error; err != nil {
				return err
			}
		}

		return tx.Delete(row).Error
	})
}

func (s *NamedService[T, PT]) find(db *gorm.DB, ownerID, id int64) (*T, error) {
	var row T
	err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (s *NamedService[T, PT]) save(db *gorm.DB, row *T, create bool) error {
	var err error
	if create {
		err = db.Create(row).Error
	} else {
		err = db.Save(row).Error
	}
	if utils.IsUniqueViolation(err) {
		return ErrNameTaken
	}
	return err
}
