// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/calcoloergosum/vocagen/constant"
	"github.com/calcoloergosum/vocagen/filesystem"
	"github.com/calcoloergosum/vocagen/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.Vocagen)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Vocagen)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return Validate()
}

// Validate checks every registered field's current value against its definition.
func Validate() error {
	var errs []error

	for name, field := range Default {
		var current any
		switch field.Value.(type) {
		case string:
			current = viper.GetString(name)
		case int:
			current = viper.GetInt(name)
		case bool:
			current = viper.GetBool(name)
		case []string:
			current = viper.GetStringSlice(name)
		default:
			continue
		}

		if err := field.Accepts(current); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}
