// Package icon renders symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/keypoint-cli/keypoint/key"
	"github.com/spf13/viper"
)

type iconDef struct {
	emoji, nerd, plain, kaomoji, squares string
}

func (d *iconDef) variants() map[string]string {
	return map[string]string{
		"emoji":   d.emoji,
		"nerd":    d.nerd,
		"plain":   d.plain,
		"kaomoji": d.kaomoji,
		"squares": d.squares,
	}
}

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return []string{"emoji", "kaomoji", "nerd", "plain", "squares"}
}

// Get renders i. Unknown variants fall back to plain.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	if glyph, ok := d.variants()[viper.GetString(key.IconsVariant)]; ok {
		return glyph
	}
	return d.plain
}
