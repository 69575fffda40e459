// Package icon renders status symbols in the style chosen by icons.variant.
package icon

import (
	"github.com/calcoloergosum/vocagen/key"
	"github.com/spf13/viper"
)

const (
	plain   = "plain"
	emoji   = "emoji"
	nerd    = "nerd"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return []string{plain, emoji, nerd, kaomoji, squares}
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) in(variant string) string {
	switch variant {
	case plain:
		return d.plain
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	}
	return ""
}

// Get renders i in the configured variant. Unknown variants render nothing.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.in(viper.GetString(key.IconsVariant))
}
