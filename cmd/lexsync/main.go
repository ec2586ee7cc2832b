// Command lexsync keeps a dated registry of legal instruments.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/lexsync/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
