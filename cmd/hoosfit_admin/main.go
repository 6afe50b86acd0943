// Package main is the hoosfit admin CLI: schema migration, account creation
// and streak maintenance against the configured database.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %s", err)
		os.Exit(1)
	}
}
