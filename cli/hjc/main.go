// Package main is the CLI command itself.
package main

import (
	"os"

	"go.viam.com/hjc/cli"
	"go.viam.com/hjc/logging"
)

func main() {
	logging.ReplaceGlobal(logging.NewLogger("hjc"))
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}
