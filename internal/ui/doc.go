// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks an operator through a shift:
//  1. [DashboardView] : Personal totals and the last feedback
//  2. [SelectView] : Pick the platforms to work on
//  3. [TimerView] : Running clock, redrawn every second while the shift is active
//  4. [TokenView] : Enter the tokens earned on each selected platform
//  5. [ProgressView] : Follow the shift being closed, summarized and saved
//  6. [ResultView] : Totals and the generated feedback
//
// [HistoryView] lists completed shifts and administrators get a [ReportView] that can be shared.
//
// Progress updates flow through a channel from the studio Manager, so the clock and the
// progress view never block on the feedback request.
package ui
