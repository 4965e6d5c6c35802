// Package cli contains all business logic for the hjc command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	configFlag  = "config"
	debugFlag   = "debug"
	resultsFlag = "results"
	subjectFlag = "subject"
	noStoreFlag = "no-store"
)

var app = &cli.App{
	Name:            "hjc",
	Usage:           "estimate hip joint centres from motion capture trials",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:  "estimate",
			Usage: "estimate the hip joint centre of every trial in a config",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     configFlag,
					Aliases:  []string{"c"},
					Usage:    "load configuration from `FILE`",
					Required: true,
				},
				&cli.StringFlag{
					Name:  resultsFlag,
					Usage: "store estimates in the SQLite database at `PATH`, overriding the config",
				},
				&cli.BoolFlag{
					Name:  noStoreFlag,
					Usage: "do not store estimates",
				},
			},
			Action: EstimateAction,
		},
		{
			Name:      "history",
			Usage:     "list stored estimates",
			UsageText: "hjc history --results <path> [--subject <subject>]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     resultsFlag,
					Usage:    "read estimates from the SQLite database at `PATH`",
					Required: true,
				},
				&cli.StringFlag{
					Name:  subjectFlag,
					Usage: "only list estimates for `SUBJECT`",
				},
			},
			Action: HistoryAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
