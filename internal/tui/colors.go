package tui

// Color constants for the liftlog terminal theme
const (
	// Base Colors
	ColorCardBackground = "#101A1F" // Dark slate
	ColorBorder         = "#34454F" // Grey-teal

	// Text Colors
	ColorPrimaryText   = "#E6EEF2" // Labels, user input, titles
	ColorSecondaryText = "#A9B8C2"
	ColorDisabledText  = "#62717B" // Empty cells, muted hints
	ColorPlaceholder   = "#62717B"
	ColorHelpText      = "240"

	// Accent Colors (teal theme)
	ColorAccentMain   = "#14B8A6" // Charts, active borders
	ColorAccentBright = "#5EEAD4" // Focused field, selection

	// State Colors
	ColorError   = "#EF4444"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B" // Drafts
)
