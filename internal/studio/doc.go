// Package studio implements the shift lifecycle and the figures derived from it.
//
// # Lifecycle
//
// A shift moves (none) → active → completed and never back. [Manager] runs the three operations:
//
//  1. [Manager.Start] : opens a shift on the selected platforms
//     - one metric per known platform, in canonical order
//     - refused with no platforms selected or while another shift is active
//
//  2. [Manager.Tick] / [Manager.Watch] : elapsed time of the active shift
//     - [Timer] ticks once a second and exits when the shift ends or its context is cancelled
//
//  3. [Manager.End] : closes the shift with the operator's token counts
//     - tokens are applied to selected platforms only and summed
//     - a [Summarizer] comments on the shift; errors, timeouts and blank answers become fixed text
//     - the completed shift replaces the active one and the pointer is cleared in one commit
//
// Each operation loads a [State] snapshot, applies a pure transition ([State.Start], [State.Complete])
// and commits the new snapshot through a [ShiftStore].
//
// # Aggregation
//
// [ShiftRevenue], [Totals] and [Stats] derive revenue, studio totals, the per-platform breakdown
// and the top platform from completed shifts. Ties for top platform go to the earlier platform in
// canonical order.
//
// # Planner
//
// [Planner] edits the content plan, working schedule, guides, saved logins and role. Those
// collections are independent of shifts.
package studio
