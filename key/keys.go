// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount is the number of registered configuration fields.
const DefinedFieldsCount = 15

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Audio Playback - these keys tune the playback engine and the session controller.
const (
	PlayerMPVPath           = "player.mpv_path"
	PlayerStatusInterval    = "player.status_interval"
	PlayerCompletionEpsilon = "player.completion_epsilon"
	PlayerSeekStep          = "player.seek_step"
	PlayerAutoAdvance       = "player.auto_advance"
	PlayerLoadTimeout       = "player.load_timeout"
)

// Notices - these keys control out-of-band user notifications.
const (
	NotifyDesktop = "notify.desktop"
)

// Progress Tracking - these keys configure the persistence of reading and listening state.
const (
	ProgressSaveListening = "progress.save_listening"
)

// Terminal User Interface (TUI) - these keys define the player surface behaviour.
const (
	TUIStartExpanded = "tui.start_expanded"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
