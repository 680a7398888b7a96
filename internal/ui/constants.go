package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "🗀"
	IconTheme    = "◐"
	IconReload   = "⟳"
	IconError    = "❌"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing
const (
	WindowWidth  float32 = 900
	WindowHeight float32 = 640

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 56

	StageLabelWidth  float32 = 180
	FilterSelectSize float32 = 180

	SettingsDialogWidth  float32 = 420
	SettingsDialogHeight float32 = 300
)

// Toast notification behavior
const (
	ToastAutoHide = 3 * time.Second
)
