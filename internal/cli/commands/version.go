package commands

import (
	"fmt"

	"clearcrash/pkg/version"
)

// Version prints build information.
func Version(env *Env) error {
	_, err := fmt.Fprintln(env.Stdout, version.Info())
	return err
}
