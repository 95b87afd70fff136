// Package icon renders the symbols used by the player and the CLI.
// The variant is chosen with icons.variant; unknown variants fall back to plain text.
package icon

import (
	"github.com/gurbani-cli/gurbani/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

type iconDef struct {
	emoji, nerd, plain, kaomoji, squares string
}

func (d *iconDef) variant(name string) string {
	return map[string]string{
		emoji:   d.emoji,
		nerd:    d.nerd,
		plain:   d.plain,
		kaomoji: d.kaomoji,
		squares: d.squares,
	}[name]
}

// Get renders i in the configured variant.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}

	variant := viper.GetString(key.IconsVariant)
	if !lo.Contains(AvailableVariants(), variant) {
		variant = plain
	}

	return def.variant(variant)
}
