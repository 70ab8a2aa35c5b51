package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"pantry/internal/pkg/utils"
)

const (
	defaultSearchTake = 10
	maxSearchTake     = 50
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) List(ctx context.Context, ownerID int64, f ProductFilter) ([]Product, int64, error) {
	var (
		products []Product
		total    int64
	)

	q := s.db.WithContext(ctx).Model(&Product{}).Where("owner_id = ?", ownerID)
	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+term+"%")
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	err := q.Preload("Category").Preload("DefaultLocation").Preload("DefaultUnit").
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *ProductService) Get(ctx context.Context, ownerID, id int64) (*Product, error) {
	var p Product
	err := s.db.WithContext(ctx).
		Preload("Category").Preload("DefaultLocation").Preload("DefaultUnit").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Create(ctx context.Context, ownerID int64, in ProductInput) (*Product, error) {
	p := Product{OwnerID: ownerID}
	if err := s.write(ctx, &p, in, true); err != nil {
		return nil, err
	}
	return s.Get(ctx, ownerID, p.ID)
}

func (s *ProductService) Update(ctx context.Context, ownerID, id int64, in ProductInput) (*Product, error) {
	var p Product
	err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.write(ctx, &p, in, false); err != nil {
		return nil, err
	}
	return s.Get(ctx, ownerID, id)
}

func (s *ProductService) write(ctx context.Context, p *Product, in ProductInput, create bool) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrNameRequired
	}

	db := s.db.WithContext(ctx)
	err := VerifyOwned(db, p.OwnerID,
		CategoryRef(in.CategoryID),
		LocationRef(in.DefaultLocationID),
		UnitRef(in.DefaultUnitID),
	)
	if err != nil {
		return err
	}

	p.Name = name
	p.CategoryID = in.CategoryID
	p.DefaultLocationID = in.DefaultLocationID
	p.DefaultUnitID = in.DefaultUnitID
	p.Barcode = utils.TrimmedOrNil(in.Barcode)
	p.Notes = utils.TrimmedOrNil(in.Notes)

	if create {
		err = db.Omit("Category", "DefaultLocation", "DefaultUnit").Create(p).Error
	} else {
		err = db.Omit("Category", "DefaultLocation", "DefaultUnit").Save(p).Error
	}
	if utils.IsUniqueViolation(err) {
		return ErrNameTaken
	}
	return err
}

// Delete removes a product with its stock rows. Shopping items keep their
// free-text name and recipe rows fall back to pending.
func (s *ProductService) Delete(ctx context.Context, ownerID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Product
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		m := tx.Migrator()
		if m.HasTable("inventory_items") {
			if err := tx.Exec("DELETE FROM inventory_items WHERE product_id = ?", id).Error; err != nil {
				return err
			}
		}
		if m.HasTable("shopping_items") {
			if err := tx.Table("shopping_items").Where("product_id = ?", id).Update("product_id", nil).Error; err != nil {
				return err
			}
		}
		if m.HasTable("recipe_ingredients") {
			err := tx.Table("recipe_ingredients").Where("product_id = ?", id).Updates(map[string]any{
				"product_id":     nil,
				"link_status":    "pending",
				"candidate_name": p.Name,
			}).Error
			if err != nil {
				return err
			}
		}
		if m.HasTable("recipes") {
			if err := tx.Table("recipes").Where("key_ingredient_id = ?", id).Update("key_ingredient_id", nil).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&p).Error
	})
}

// Search returns up to take products whose name contains q, case-insensitively.
func (s *ProductService) Search(ctx context.Context, ownerID int64, q string, take int) ([]ProductHit, error) {
	if take <= 0 {
		take = defaultSearchTake
	}
	if take > maxSearchTake {
		take = maxSearchTake
	}

	hits := make([]ProductHit, 0, take)
	query := s.db.WithContext(ctx).Model(&Product{}).
		Select("id", "name").
		Where("owner_id = ?", ownerID)
	if term := strings.ToLower(strings.TrimSpace(q)); term != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+term+"%")
	}

	err := query.Order("name ASC").Limit(take).Scan(&hits).Error
	return hits, err
}
