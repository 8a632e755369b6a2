// gw is the Gas Town formula engine CLI.
package main

import (
	"os"

	"github.com/steveyegge/gasworks/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
