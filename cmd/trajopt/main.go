package main

import (
	"fmt"
	"os"

	"github.com/Veratay/mecanum-trajopt/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "trajopt: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
