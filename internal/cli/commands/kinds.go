package commands

import (
	"fmt"
	"text/tabwriter"
)

// Kinds lists every exception kind with a dedicated analyzer.
func Kinds(env *Env) error {
	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tANALYZER")
	for _, kind := range env.Engine.Kinds() {
		a, _ := env.Engine.Lookup(kind)
		fmt.Fprintf(tw, "%s\t%s\n", kind, a.Title())
	}
	return tw.Flush()
}
