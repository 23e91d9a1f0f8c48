package config

import (
	"github.com/keypoint-cli/keypoint/key"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Default maps every known key to its field.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func register(k string, v any, desc string, options ...string) {
	if _, exists := Default[k]; exists {
		panic("duplicate config key: " + k)
	}
	Default[k] = Field{Key: k, Value: v, Description: desc, Options: options}
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.Player, "mpv", "Audio backend", "mpv", "beep", "headless")
	register(key.PlayerMpvPath, "mpv", "Path to the mpv executable")
	register(key.PlayerRate, "1", "Initial playback rate", "0.5", "0.75", "1", "1.25", "1.5", "1.75", "2")
	register(key.PlayerAutoplay, false, "Start playing the first key point as soon as it is loaded")
	register(key.LibraryPath, "", "Directory with book catalogs (*.toml, *.json).\nDefaults to the library directory shown by \"keypoint where\"")
	register(key.HistorySave, true, "Remember the last key point of every book")
	register(key.StoreProductID, "", "Subscription product identifier.\nDefaults to the yearly subscription of the bundle")
	register(key.StoreSimulate, "verified", "Outcome of sandbox purchases", "verified", "unverified", "pending", "cancelled", "failed")
	register(key.IconsVariant, "plain", "Icons variant (nerd requires a nerd font)", "emoji", "kaomoji", "plain", "squares", "nerd")
	register(key.TUIShowText, true, "Show the key point text under the player")
	register(key.TUIItemSpacing, 1, "Spacing between items in the library list")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Log level, from less to most verbose", "panic", "fatal", "error", "warn", "info", "debug", "trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Check for new releases when showing help")
}

// Keys returns the registered keys in lexical order.
func Keys() []string {
	keys := lo.Keys(Default)
	slices.Sort(keys)
	return keys
}

// Suggest returns the registered key closest to k by edit distance.
func Suggest(k string) string {
	return lo.MinBy(Keys(), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
}
