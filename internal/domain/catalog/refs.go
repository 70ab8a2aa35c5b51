package catalog

import (
	"fmt"

	"gorm.io/gorm"
)

// Ref is an optional foreign key that, when set, must point at one of the owner's rows.
type Ref struct {
	Model any
	ID    *int64
}

func CategoryRef(id *int64) Ref { return Ref{Model: &Category{}, ID: id} }
func LocationRef(id *int64) Ref { return Ref{Model: &Location{}, ID: id} }
func StoreRef(id *int64) Ref    { return Ref{Model: &Store{}, ID: id} }
func UnitRef(id *int64) Ref     { return Ref{Model: &Unit{}, ID: id} }
func ProductRef(id *int64) Ref  { return Ref{Model: &Product{}, ID: id} }

// VerifyOwned checks every set reference against the owner. db may be a transaction.
func VerifyOwned(db *gorm.DB, ownerID int64, refs ...Ref) error {
	for _, r := range refs {
		if r.ID == nil {
			continue
		}

		var count int64
		err := db.Model(r.Model).Where("id = ? AND owner_id = ?", *r.ID, ownerID).Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: %T %d", ErrInvalidReference, r.Model, *r.ID)
		}
	}
	return nil
}
