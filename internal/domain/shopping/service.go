package shopping

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"pantry/internal/domain/catalog"
	"pantry/internal/domain/inventory"
	"pantry/internal/pkg/utils"
)

type publisher interface {
	Publish(ownerID int64, event Event)
}

type stockReceiver interface {
	ReceiveTx(tx *gorm.DB, ownerID int64, r inventory.Receipt) error
}

type Service struct {
	db    *gorm.DB
	stock stockReceiver
	hub   publisher
}

func NewService(db *gorm.DB, stock stockReceiver, hub publisher) *Service {
	return &Service{db: db, stock: stock, hub: hub}
}

func (s *Service) List(ctx context.Context, ownerID int64, f Filter) ([]Item, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if f.StoreID != nil {
		q = q.Where("store_id = ?", *f.StoreID)
	}
	if f.Checked != nil {
		q = q.Where("checked = ?", *f.Checked)
	}

	var items []Item
	err := q.Preload("Product").Preload("Unit").Preload("Store").
		Order("checked ASC").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Item, error) {
	var item Item
	err := s.db.WithContext(ctx).
		Preload("Product").Preload("Unit").Preload("Store").
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

func (s *Service) Create(ctx context.Context, ownerID int64, in ItemInput) (*Item, error) {
	item := Item{OwnerID: ownerID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyInput(tx, &item, in); err != nil {
			return err
		}
		return tx.Omit("Product", "Unit", "Store").Create(&item).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, ownerID, item.ID)
	if err != nil {
		return nil, err
	}
	s.publish(ownerID, EventItemCreated, created)
	return created, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id int64, in ItemInput) (*Item, error) {
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
		return tx.Omit("Product", "Unit", "Store").Save(&item).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	s.publish(ownerID, EventItemUpdated, updated)
	return updated, nil
}

func (s *Service) Toggle(ctx context.Context, ownerID, id int64) (*Item, error) {
	item, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&Item{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("checked", !item.Checked).Error
	if err != nil {
		return nil, err
	}
	item.Checked = !item.Checked

	s.publish(ownerID, EventItemUpdated, item)
	return item, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.publish(ownerID, EventItemDeleted, map[string]int64{"id": id})
	return nil
}

func (s *Service) ClearChecked(ctx context.Context, ownerID int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("owner_id = ? AND checked = ?", ownerID, true).Delete(&Item{})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 {
		s.publish(ownerID, EventListChanged, nil)
	}
	return res.RowsAffected, nil
}

// Checkout moves every checked item that names a product into inventory and
// drops all checked rows, atomically.
func (s *Service) Checkout(ctx context.Context, ownerID int64, req CheckoutRequest) (*CheckoutResult, error) {
	result := &CheckoutResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := catalog.VerifyOwned(tx, ownerID, catalog.LocationRef(req.LocationID)); err != nil {
			return err
		}

		var checked []Item
		if err := tx.Where("owner_id = ? AND checked = ?", ownerID, true).Order("id ASC").Find(&checked).Error; err != nil {
			return err
		}

		for _, item := range checked {
			if item.ProductID == nil {
				continue
			}
			receipt := inventory.Receipt{
				ProductID:  *item.ProductID,
				LocationID: req.LocationID,
				UnitID:     item.UnitID,
			}
			if item.Quantity.Valid {
				receipt.Quantity = item.Quantity.Decimal
			}
			if err := s.stock.ReceiveTx(tx, ownerID, receipt); err != nil {
				return err
			}
			result.Moved++
		}

		if len(checked) == 0 {
			return nil
		}
		if err := tx.Where("owner_id = ? AND checked = ?", ownerID, true).Delete(&Item{}).Error; err != nil {
			return err
		}
		result.Removed = len(checked)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Removed > 0 {
		s.publish(ownerID, EventListChanged, result)
	}
	return result, nil
}

// AddMany inserts several entries in one transaction.
func (s *Service) AddMany(ctx context.Context, ownerID int64, inputs []ItemInput) ([]Item, error) {
	if len(inputs) == 0 {
		return []Item{}, nil
	}

	items := make([]Item, len(inputs))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, in := range inputs {
			items[i].OwnerID = ownerID
			if err := applyInput(tx, &items[i], in); err != nil {
				return err
			}
		}
		return tx.Omit("Product", "Unit", "Store").Create(&items).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ownerID, EventListChanged, nil)
	return items, nil
}

func (s *Service) publish(ownerID int64, eventType string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ownerID, Event{Type: eventType, Payload: payload})
}

func applyInput(tx *gorm.DB, item *Item, in ItemInput) error {
	err := catalog.VerifyOwned(tx, item.OwnerID,
		catalog.ProductRef(in.ProductID),
		catalog.UnitRef(in.UnitID),
		catalog.StoreRef(in.StoreID),
	)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" && in.ProductID != nil {
		var product catalog.Product
		if err := tx.Select("name").First(&product, *in.ProductID).Error; err != nil {
			return err
		}
		name = product.Name
	}
	if name == "" {
		return ErrNameRequired
	}

	item.ProductID = in.ProductID
	item.Name = name
	item.Quantity = in.Quantity
	item.UnitID = in.UnitID
	item.StoreID = in.StoreID
	item.Checked = in.Checked
	item.Notes = utils.TrimmedOrNil(in.Notes)
	return nil
}
