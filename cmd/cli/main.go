// todo-ci - Dated Todo Checker
//
// todo-ci scans a source tree for @todo(YYYY-MM-DD) markers and fails the
// build when any of them are past due.
package main

import (
	"os"

	"github.com/ccollicutt/todoci/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
