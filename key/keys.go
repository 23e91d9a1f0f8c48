// Package key names every setting, as used with viper.
package key

const (
	Player         = "player.default"
	PlayerMpvPath  = "player.mpv_path"
	PlayerRate     = "player.rate"
	PlayerAutoplay = "player.autoplay"
)

const LibraryPath = "library.path"

const HistorySave = "history.save"

// Subscription store.
const (
	StoreProductID = "store.product_id"
	StoreSimulate  = "store.simulate"
)

const IconsVariant = "icons.variant"

const (
	TUIShowText    = "tui.show_text"
	TUIItemSpacing = "tui.item_spacing"
)

const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
