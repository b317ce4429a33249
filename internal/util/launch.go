// Package util holds small process-level helpers.
package util

import "slices"

// Commands lists the top-level commands understood by the CLI.
var Commands = []string{"run", "bindings", "config"}

// WithDefaultCommand prepends cmd to args when the process was started
// without one, e.g. by double-clicking the executable. args excludes the
// program name.
func WithDefaultCommand(args []string, cmd string) []string {
	for _, a := range args {
		if slices.Contains(Commands, a) {
			return args
		}
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, cmd)
	return append(out, args...)
}
