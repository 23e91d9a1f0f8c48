// Package where resolves the directories keypoint reads and writes.
// Every directory returned exists.
package where

import (
	"os"
	"path/filepath"

	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/filesystem"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath overrides the config directory.
const EnvConfigPath = "KEYPOINT_CONFIG_PATH"

func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, 0o755))
	return path
}

// under joins elem to a base directory, falling back to a relative
// directory when the platform has none.
func under(base func() (string, error), elem ...string) string {
	dir, err := base()
	if err != nil {
		dir = "." + constant.Keypoint
	}
	return filepath.Join(append([]string{dir}, elem...)...)
}

func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok && custom != "" {
		return mkdir(custom)
	}
	return mkdir(under(os.UserConfigDir, constant.Keypoint))
}

func Cache() string {
	return mkdir(under(os.UserCacheDir, constant.Keypoint))
}

func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// Library is scanned for book catalogs. library.path takes precedence.
func Library() string {
	if custom := viper.GetString(key.LibraryPath); custom != "" {
		return mkdir(custom)
	}
	return mkdir(filepath.Join(Config(), "library"))
}

// History is the file with the last key point of every book.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Store holds the sandbox subscription state.
func Store() string {
	return mkdir(filepath.Join(Config(), "store"))
}

// Temp holds sockets of running mpv instances.
func Temp() string {
	return mkdir(filepath.Join(os.TempDir(), constant.Keypoint))
}
