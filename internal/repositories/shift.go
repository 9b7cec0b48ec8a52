package repositories

import (
	"github.com/desertthunder/prima/internal/models"
)

// ShiftRepository persists the shift history together with the pointer to the active shift.
type ShiftRepository struct {
	store  *Store
	shifts *JSONCollection[models.Shift]
}

// NewShiftRepository creates a ShiftRepository. History starts empty and an unreadable history is treated as empty.
func NewShiftRepository(store *Store) *ShiftRepository {
	return &ShiftRepository{
		store:  store,
		shifts: NewJSONCollection[models.Shift](store, KeyShifts, nil),
	}
}

// Load returns every shift in creation order.
func (r *ShiftRepository) Load() ([]models.Shift, error) {
	return r.shifts.Load()
}

// Save replaces the shift history.
func (r *ShiftRepository) Save(shifts []models.Shift) error {
	return r.shifts.Save(shifts)
}

// ActiveID returns the id of the active shift, or "" when none is recorded.
func (r *ShiftRepository) ActiveID() (string, error) {
	return loadText(r.store, KeyActiveShiftID)
}

// SetActiveID records id as active; an empty id clears the pointer.
func (r *ShiftRepository) SetActiveID(id string) error {
	return r.store.Update(func(tx *Tx) error { return writeActiveID(tx, id) })
}

// Commit saves the history and the active pointer in one transaction.
func (r *ShiftRepository) Commit(shifts []models.Shift, activeID string) error {
	return r.store.Update(func(tx *Tx) error {
		if err := r.shifts.SaveTx(tx, shifts); err != nil {
			return err
		}
		return writeActiveID(tx, activeID)
	})
}

func writeActiveID(tx *Tx, id string) error {
	if id == "" {
		return tx.Delete(KeyActiveShiftID)
	}
	return tx.PutJSON(KeyActiveShiftID, id)
}
