// The main package for the ncbidscraper executable.
package main

import (
	"github.com/Haston00/nc-construction-data/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
