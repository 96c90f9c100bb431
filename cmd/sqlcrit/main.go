package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/mitranim/sqlcrit/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
