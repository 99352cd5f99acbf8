// Command taxctl works with the regional tax table offline: it reshapes the
// wide source file, prints year-over-year deltas and validates inputs.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
