package ui

// DisplayConfig holds configuration for UI rendering
type DisplayConfig struct {
	// Table and tree titles are cut to this; the list shows them whole
	MaxTitleLengthTable int

	// Display lengths
	CommitHashDisplayLength int
	DefaultTerminalWidth    int
	MaxSeparatorWidth       int

	// Merge times, e.g. "Oct 14, 1983, 1:30 PM"
	TimeLayout string
}

// DefaultConfig returns the default display configuration
func DefaultConfig() DisplayConfig {
	return DisplayConfig{
		MaxTitleLengthTable: 50,

		CommitHashDisplayLength: 7,
		DefaultTerminalWidth:    120,
		MaxSeparatorWidth:       80,

		TimeLayout: "Jan 2, 2006, 3:04 PM",
	}
}

// Global display configuration (can be overridden)
var Display = DefaultConfig()
