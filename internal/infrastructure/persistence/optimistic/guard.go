// Package optimistic implements conditional versioned writes on top of
// GORM. Every tracked update asserts the version the caller last read;
// the database applies the write and the version increment in a single
// conditional UPDATE, so two writers racing on the same record cannot
// both succeed.
package optimistic

import (
	"errors"
	"fmt"

	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const versionColumn = "version"

// Update applies changes to the record identified by id, guarded by the
// asserted version. On success the stored version becomes asserted+1.
//
// An asserted version of zero addresses legacy rows created before
// version tracking: the write initializes the counter to 1, and only one
// of several racing initializers wins.
//
// When the conditional write matches no row, the record is probed to tell
// a missing record (gorm.ErrRecordNotFound) apart from a stale assertion
// (VersionConflictError carrying the current stored version). The changes
// map must not set the version column itself.
func Update(db *gorm.DB, model any, id uuid.UUID, asserted int64, changes map[string]any) error {
	if _, ok := changes[versionColumn]; ok {
		return fmt.Errorf("optimistic: changes must not set %q directly", versionColumn)
	}
	if asserted < 0 {
		return fmt.Errorf("optimistic: asserted version %d is negative", asserted)
	}

	set := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		set[k] = v
	}

	tx := db.Model(model).Where("id = ?", id)
	if asserted == 0 {
		set[versionColumn] = int64(1)
		tx = tx.Where("version IS NULL OR version = 0")
	} else {
		set[versionColumn] = asserted + 1
		tx = tx.Where("version = ?", asserted)
	}

	res := tx.Updates(set)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	current, err := CurrentVersion(db, model, id)
	if err != nil {
		return err
	}
	return shared.NewVersionConflictError(asserted, current)
}

// Delete removes the record identified by id, guarded by the asserted
// version. Like Update, it distinguishes a missing record from a stale
// assertion.
func Delete(db *gorm.DB, model any, id uuid.UUID, asserted int64) error {
	tx := db.Where("id = ?", id)
	if asserted == 0 {
		tx = tx.Where("version IS NULL OR version = 0")
	} else {
		tx = tx.Where("version = ?", asserted)
	}

	res := tx.Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	current, err := CurrentVersion(db, model, id)
	if err != nil {
		return err
	}
	return shared.NewVersionConflictError(asserted, current)
}

// CurrentVersion reads the stored version counter for the record, with
// NULL reported as zero. Returns gorm.ErrRecordNotFound when the record
// does not exist.
func CurrentVersion(db *gorm.DB, model any, id uuid.UUID) (int64, error) {
	var current *int64
	err := db.Model(model).Where("id = ?", id).Select(versionColumn).Scan(&current).Error
	if err != nil {
		return 0, err
	}
	if current == nil {
		// Scan leaves the destination nil both for NULL and for no row
		var count int64
		if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, gorm.ErrRecordNotFound
		}
		return 0, nil
	}
	return *current, nil
}

// IsConflict reports whether err is a version conflict
func IsConflict(err error) bool {
	var vc *shared.VersionConflictError
	return errors.As(err, &vc)
}
