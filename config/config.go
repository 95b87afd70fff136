// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/gurbani-cli/gurbani/constant"
	"github.com/gurbani-cli/gurbani/filesystem"
	"github.com/gurbani-cli/gurbani/log"
	"github.com/gurbani-cli/gurbani/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.Gurbani)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Gurbani)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// Watch reloads the config file whenever it changes on disk.
// Values are read through viper at the point of use, so player settings apply to the running session.
// Does nothing when no config file was found by Setup.
func Watch(onChange func(name string)) {
	if viper.ConfigFileUsed() == "" {
		return
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("config changed: %s (%s)", e.Name, e.Op)
		if onChange != nil {
			onChange(e.Name)
		}
	})
	viper.WatchConfig()
}
