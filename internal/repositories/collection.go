package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/prima/internal/models"
)

// JSONCollection implements [models.Collection] for a slice of records stored under one key.
type JSONCollection[T models.Record] struct {
	store *Store
	key   string
	seed  func() []T
}

// NewJSONCollection creates a collection under key. seed supplies the contents returned
// before anything has been saved, and after an unreadable value; nil means empty.
func NewJSONCollection[T models.Record](store *Store, key string, seed func() []T) *JSONCollection[T] {
	if seed == nil {
		seed = func() []T { return []T{} }
	}
	return &JSONCollection[T]{store: store, key: key, seed: seed}
}

// Load returns the stored records in saved order.
func (c *JSONCollection[T]) Load() ([]T, error) {
	items, err := loadJSON(c.store, c.key, c.seed)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save validates the new and changed records and replaces the stored sequence.
//
// Records already stored byte for byte are kept as they are, so a value written by another
// build that breaks an invariant does not block later saves.
func (c *JSONCollection[T]) Save(items []T) error {
	return c.store.Update(func(tx *Tx) error { return c.SaveTx(tx, items) })
}

// SaveTx is [JSONCollection.Save] as part of a wider transaction.
func (c *JSONCollection[T]) SaveTx(tx *Tx, items []T) error {
	if items == nil {
		items = []T{}
	}

	stored, err := c.stored(tx)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		_, dup := seen[item.Key()]
		seen[item.Key()] = struct{}{}
		if unchanged(stored, item) {
			continue
		}
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if dup {
			return fmt.Errorf("validation failed: duplicate key %q in %s", item.Key(), c.key)
		}
	}

	return tx.PutJSON(c.key, items)
}

// stored returns the encoded form of every record currently saved, by key.
// An absent or unreadable value yields an empty map.
func (c *JSONCollection[T]) stored(tx *Tx) (map[string][]byte, error) {
	raw, ok, err := tx.Get(c.key)
	if err != nil || !ok {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil
	}

	out := make(map[string][]byte, len(items))
	for _, item := range items {
		if data, err := json.Marshal(item); err == nil {
			out[item.Key()] = data
		}
	}
	return out, nil
}

func unchanged[T models.Record](stored map[string][]byte, item T) bool {
	prev, ok := stored[item.Key()]
	if !ok {
		return false
	}
	data, err := json.Marshal(item)
	return err == nil && bytes.Equal(prev, data)
}

// Key returns the store key backing the collection.
func (c *JSONCollection[T]) Key() string { return c.key }

// NewTaskRepository returns the content plan collection, seeded with the demo plan.
func NewTaskRepository(store *Store) *JSONCollection[models.Task] {
	return NewJSONCollection(store, KeyTasks, models.SeedTasks)
}

// NewScheduleRepository returns the working schedule collection, seeded with the demo week.
func NewScheduleRepository(store *Store) *JSONCollection[models.DaySchedule] {
	return NewJSONCollection(store, KeySchedules, models.SeedSchedule)
}

// NewGuideRepository returns the guide collection, seeded with the built-in guides.
func NewGuideRepository(store *Store) *JSONCollection[models.Guide] {
	return NewJSONCollection(store, KeyGuides, models.SeedGuides)
}
