package tui

// Color constants for the taskdeck TUI theme
const (
	// Base Colors
	ColorAppBackground  = ""        // Use terminal default background
	ColorCardBackground = "#14202B" // Dark slate
	ColorBorder         = "#3A4A5A" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text (field labels, titles)
	ColorSecondaryText = "#ADB8C4" // Secondary text
	ColorDisabledText  = "#6D7683" // Disabled/muted text
	ColorPlaceholder   = "#ADB8C4" // Same as secondary
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Teal theme)
	ColorAccentMain   = "#0D9488" // Accent elements, active borders
	ColorAccentBright = "#2DD4BF" // Highlights, selected column

	// State Colors
	ColorError   = "#EF4444" // Errors, overdue, urgent/high priority
	ColorSuccess = "#22C55E" // Done, active members, low priority
	ColorWarning = "#F59E0B" // Due soon, medium priority
)

// PriorityColor returns the display color for a priority name.
func PriorityColor(priority string) string {
	switch priority {
	case "urgent", "high":
		return ColorError
	case "medium":
		return ColorWarning
	case "low":
		return ColorSuccess
	default:
		return ColorDisabledText
	}
}
