package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pantry/internal/domain/catalog"
	"pantry/internal/pkg/utils"
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (s *Service) List(ctx context.Context, ownerID int64, f Filter) ([]Item, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if f.LocationID != nil {
		q = q.Where("location_id = ?", *f.LocationID)
	}
	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}
	if f.ExpiringWithinDays != nil {
		cutoff := s.now().AddDate(0, 0, *f.ExpiringWithinDays)
		q = q.Where("expires_at IS NOT NULL AND expires_at <= ?", cutoff)
	}

	var items []Item
	err := q.Preload("Product").Preload("Location").Preload("Unit").
		Order("CASE WHEN expires_at IS NULL THEN 1 ELSE 0 END").
		Order("expires_at ASC").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Item, error) {
	return s.load(s.db.WithContext(ctx), ownerID, id)
}

func (s *Service) Create(ctx context.Context, ownerID int64, in ItemInput) (*Item, error) {
	if !in.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	item := Item{OwnerID: ownerID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyInput(tx, &item, in); err != nil {
			return err
		}
		return tx.Omit("Product", "Location", "Unit").Create(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, ownerID, item.ID)
}

func (s *Service) Update(ctx context.Context, ownerID, id int64, in ItemInput) (*Item, error) {
	if !in.Quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item Item
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := applyInput(tx, &item, in); err != nil {
			return err
		}
		return tx.Omit("Product", "Location", "Unit").Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, ownerID, id)
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Consume takes qty off an item. The row is removed once nothing is left.
func (s *Service) Consume(ctx context.Context, ownerID, id int64, qty decimal.Decimal) (*ConsumeResult, error) {
	if !qty.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	result := &ConsumeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item Item
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if qty.GreaterThan(item.Quantity) {
			return ErrInsufficientQuantity
		}

		remaining := item.Quantity.Sub(qty)
		if remaining.IsZero() {
			result.Deleted = true
			return tx.Delete(&item).Error
		}

		return tx.Model(&item).Update("quantity", remaining).Error
	})
	if err != nil {
		return nil, err
	}

	if !result.Deleted {
		item, err := s.Get(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		result.Item = item
	}
	return result, nil
}

// InStock reports which of productIDs the owner currently holds.
func (s *Service) InStock(ctx context.Context, ownerID int64, productIDs []int64) (map[int64]bool, error) {
	inStock := make(map[int64]bool, len(productIDs))
	if len(productIDs) == 0 {
		return inStock, nil
	}

	var held []int64
	err := s.db.WithContext(ctx).Model(&Item{}).
		Distinct("product_id").
		Where("owner_id = ? AND product_id IN ? AND quantity > 0", ownerID, productIDs).
		Pluck("product_id", &held).Error
	if err != nil {
		return nil, err
	}

	for _, id := range held {
		inStock[id] = true
	}
	return inStock, nil
}

// ReceiveTx adds stock inside the caller's transaction, merging into a sealed
// undated row for the same product, location and unit when one exists.
func (s *Service) ReceiveTx(tx *gorm.DB, ownerID int64, r Receipt) error {
	if !r.Quantity.IsPositive() {
		r.Quantity = decimal.NewFromInt(1)
	}

	var product catalog.Product
	if err := tx.Where("id = ? AND owner_id = ?", r.ProductID, ownerID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.ErrInvalidReference
		}
		return err
	}
	if r.LocationID == nil {
		r.LocationID = product.DefaultLocationID
	}
	if r.UnitID == nil {
		r.UnitID = product.DefaultUnitID
	}

	q := tx.Where("owner_id = ? AND product_id = ? AND expires_at IS NULL AND opened = ?", ownerID, r.ProductID, false)
	q = whereNullable(q, "location_id", r.LocationID)
	q = whereNullable(q, "unit_id", r.UnitID)

	var existing Item
	err := q.First(&existing).Error
	switch {
	case err == nil:
		return tx.Model(&existing).Update("quantity", existing.Quantity.Add(r.Quantity)).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Omit("Product", "Location", "Unit").Create(&Item{
			OwnerID:    ownerID,
			ProductID:  r.ProductID,
			LocationID: r.LocationID,
			UnitID:     r.UnitID,
			Quantity:   r.Quantity,
		}).Error
	default:
		return err
	}
}

func (s *Service) load(db *gorm.DB, ownerID, id int64) (*Item, error) {
	var item Item
	err := db.Preload("Product").Preload("Location").Preload("Unit").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func applyInput(tx *gorm.DB, item *Item, in ItemInput) error {
	err := catalog.VerifyOwned(tx, item.OwnerID,
		catalog.ProductRef(&in.ProductID),
		catalog.LocationRef(in.LocationID),
		catalog.UnitRef(in.UnitID),
	)
	if err != nil {
		return err
	}

	if in.LocationID == nil || in.UnitID == nil {
		var product catalog.Product
		if err := tx.Select("default_location_id", "default_unit_id").First(&product, in.ProductID).Error; err != nil {
			return err
		}
		if in.LocationID == nil {
			in.LocationID = product.DefaultLocationID
		}
		if in.UnitID == nil {
			in.UnitID = product.DefaultUnitID
		}
	}

	item.ProductID = in.ProductID
	item.LocationID = in.LocationID
	item.UnitID = in.UnitID
	item.Quantity = in.Quantity
	item.ExpiresAt = in.ExpiresAt
	item.Opened = in.Opened
	item.Notes = utils.TrimmedOrNil(in.Notes)
	return nil
}

func whereNullable(q *gorm.DB, column string, v *int64) *gorm.DB {
	if v == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *v)
}
