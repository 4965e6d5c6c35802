package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"go.viam.com/hjc/logging"
)

// printf prints a message with no decoration.
func printf(w io.Writer, format string, a ...interface{}) {
	_, err := fmt.Fprintf(w, format+"\n", a...)
	goutils.UncheckedError(err)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	_, err := color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: ")
	goutils.UncheckedError(err)
	printf(w, format, a...)
}

// newLogger builds the command's logger and installs it as the global one.
func newLogger(c *cli.Context) logging.Logger {
	logger := logging.NewLogger("hjc")
	if c.Bool(debugFlag) {
		logger = logging.NewDebugLogger("hjc")
	}
	logging.ReplaceGlobal(logger)
	return logger
}
