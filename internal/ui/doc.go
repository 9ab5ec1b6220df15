// Package ui colours command output with lipgloss.
//
// [Palette] maps each [models.OutcomeKind] to a style so a batch reads at a glance:
// downloads in green, skips muted, missing sources in orange and failures in red.
// Progress phases from the orchestrator are rendered by [Palette.Progress].
package ui
