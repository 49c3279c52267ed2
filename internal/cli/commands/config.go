package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"clearcrash/internal/config"
	e "clearcrash/pkg/errors"
	"clearcrash/pkg/terminal"
)

// ConfigPath prints the configuration file location.
func ConfigPath(env *Env, path string) error {
	_, err := fmt.Fprintln(env.Stdout, path)
	return err
}

// ConfigShow prints the effective configuration, environment overrides
// included.
func ConfigShow(env *Env) error {
	if err := toml.NewEncoder(env.Stdout).Encode(env.Config); err != nil {
		return e.Wrap(err, e.ErrUnknown, "Failed to print configuration")
	}
	for _, key := range env.Config.Unknown {
		fmt.Fprintf(env.Stderr, "%s unknown key %q ignored\n", terminal.IconWarning, key)
	}
	return nil
}

// ConfigInit writes the default configuration to path. An existing file is
// kept unless force is set.
func ConfigInit(env *Env, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return e.New(e.ErrInvalidConfig, "Configuration file already exists").
			WithContext("path", path).
			WithSuggestion("Use --force to overwrite it")
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return e.Wrap(err, e.ErrInvalidConfig, "Cannot access configuration file").WithContext("path", path)
	}
	if err := config.SaveFile(config.Default(), path); err != nil {
		return e.Wrap(err, e.ErrInvalidConfig, "Failed to write configuration").WithContext("path", path)
	}
	fmt.Fprintf(env.Stdout, "%s Wrote %s\n", terminal.IconConfig, path)
	return nil
}
