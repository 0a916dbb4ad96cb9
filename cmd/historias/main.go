// Command historias keeps the clinical histories of a medical office.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/consultorio/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
