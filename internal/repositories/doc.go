// Package repositories implements SQLite persistence for all domain entities.
//
// The database holds a single kv table mapping a key to a JSON document. Each
// collection lives under one key and is loaded and saved whole; values that
// cannot be decoded are logged and replaced by the collection default.
//
// Key Implementations:
//   - [Store] : key/value access with transactional multi-key writes via [Store.Update]
//   - [JSONCollection] : generic models.Collection over a slice of records, with a seed default
//   - [ShiftRepository] : shift history plus the active shift pointer, committed together
//   - [ProfileRepository] : saved platform logins and the operator/admin role
//
// Tasks, schedules and guides are plain [JSONCollection] values built by
// [NewTaskRepository], [NewScheduleRepository] and [NewGuideRepository].
package repositories
