// Package main provides the quackpipe CLI.
package main

import (
	"os"

	"github.com/ekiourk/quackpipe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
