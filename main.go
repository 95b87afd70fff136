// Package main is the entry point for gurbani.
package main

import (
	"github.com/gurbani-cli/gurbani/cmd"
	"github.com/gurbani-cli/gurbani/config"
	"github.com/gurbani-cli/gurbani/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// player settings are read at the point of use, so edits apply to a running session
	config.Watch(nil)

	cmd.Execute()
}
