// package models defines the data model for the studio shift tracker
package models

// Record is implemented by every entry of a persisted collection.
type Record interface {
	Key() string     // Key returns the identifier that is unique within the collection
	Validate() error // Validate checks the record's invariants
}

// Collection defines load/save access to one persisted collection.
//
// Implementations persist the whole ordered sequence at once; the local store has no partial updates.
type Collection[T any] interface {
	Load() ([]T, error)   // Load returns the stored sequence, or the collection default when absent or unreadable
	Save(items []T) error // Save replaces the stored sequence
}
