package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which secondary columns are hidden.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width for the timestamp columns.
	LayoutWideWidth = 140
)

// Log display limits.
const (
	// LogFetchLimit is the maximum number of log lines read per refresh.
	LogFetchLimit = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the snapshot store.
	DefaultUIInterval = time.Second

	// FlashDuration is how long a status message stays in the command bar.
	FlashDuration = 3 * time.Second
)
