// Package models defines the domain records of the studio shift tracker.
//
// The package contains three groups of types:
//
// 1. Platform catalog: the fixed set of streaming venues and their token rates
//   - [PlatformName] : enumerated venue identifier, canonical order via [PlatformNames]
//   - [Platform] : display metadata and default rate
//   - [Rates] : token to currency conversion with a baseline fallback
//
// 2. Shift records: one operator work session
//   - [Shift] : status, timestamps, per-platform earnings and feedback
//   - [PlatformMetric] : one entry per known platform inside a shift
//
// 3. Planner records, independent of shifts
//   - [Task], [DaySchedule], [Guide], [Credential]
//   - [User] : the logged in operator and role
//
// Records serialize to the plain camelCase JSON layout used by the local store; timestamps are Unix milliseconds.
package models
