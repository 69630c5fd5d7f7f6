// Command banquet prices catering bookings offline from a rule-set file.
package main

import (
	"os"

	"github.com/okian/banquet/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
