package version

import (
	"fmt"

	"github.com/gurbani-cli/gurbani/color"
	"github.com/gurbani-cli/gurbani/constant"
	"github.com/gurbani-cli/gurbani/icon"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/style"
	"github.com/gurbani-cli/gurbani/util"
	"github.com/spf13/viper"
)

// Newer reports whether latest is ahead of the running version.
func Newer(latest string) bool {
	comp, err := Compare(latest, constant.Version)
	return err == nil && comp > 0
}

// Notify prints a hint when a newer release exists. Failures are silent.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new version...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()

	if err != nil || !Newer(latest) {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Kesri)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/gurbani-cli/gurbani/releases/tag/v"+latest),
	)
}
