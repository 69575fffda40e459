// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Content Server - these keys locate the server that generates the item streams.
const (
	ServerURL     = "server.url"
	ServerTimeout = "server.timeout"
)

// Trainer - these keys shape the listening session itself.
const (
	TrainerPair       = "trainer.pair"
	TrainerMode       = "trainer.mode"
	TrainerOrder      = "trainer.order"
	TrainerRepeat     = "trainer.repeat"
	TrainerHideNative = "trainer.hide_native"
	TrainerPauseMs    = "trainer.pause_ms"
	TrainerGapMs      = "trainer.gap_ms"
)

// History Tracking - these keys configure resume tokens and local statistics.
const (
	HistorySave = "history.save"
)

// Minimalist (Mini) Mode - these keys configure the line-oriented trainer.
const (
	MiniItemLimit = "mini.item_limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling and logic.
const (
	TUIShowImageURL = "tui.show_image_url"
	TUIWrap         = "tui.wrap"
)

// Media Playback - these keys select and tune the audio backend.
const (
	Player = "player.default"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
