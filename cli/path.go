package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/streamscore/pkg"
)

// configFile is the base name of the YAML configuration file.
const configFile = "config.yaml"

const defaultDirMode os.FileMode = 0o700

// configPath joins the configuration directory with the given elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return pkg.MakeErrorf("create directory %q", dir).Wrap(err)
		}
	}

	return nil
}
