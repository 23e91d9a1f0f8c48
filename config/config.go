// Package config registers every setting keypoint understands and binds
// them to viper: factory values, the TOML file and KEYPOINT_ variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps config keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// ErrUnknownKey is returned for keys that were never registered.
var ErrUnknownKey = errors.New("unknown config key")

func Setup() error {
	viper.SetConfigName(constant.Keypoint)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Keypoint)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	err := viper.ReadInConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return nil
	}
	return err
}

// Path is the location of the config file, whether it exists or not.
func Path() string {
	return filepath.Join(where.Config(), constant.Keypoint+".toml")
}

// Lookup returns the field registered under k.
func Lookup(k string) (Field, error) {
	field, ok := Default[k]
	if !ok {
		return Field{}, fmt.Errorf("%w %s, did you mean %s?", ErrUnknownKey, k, Suggest(k))
	}
	return field, nil
}

// Set assigns a value and writes the config file, creating it when missing.
func Set(k string, v any) error {
	viper.Set(k, v)
	return Save()
}

// Reset restores the factory values of keys, or of every key when none
// are given, and writes the config file.
func Reset(keys ...string) error {
	if len(keys) == 0 {
		keys = Keys()
	}
	for _, k := range keys {
		field, err := Lookup(k)
		if err != nil {
			return err
		}
		viper.Set(k, field.Value)
	}
	return Save()
}

// Save writes the current settings to Path.
func Save() error {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if err := filesystem.API().MkdirAll(where.Config(), 0o755); err != nil {
			return err
		}
		return viper.SafeWriteConfig()
	}
	return err
}
