package main

import (
	"os"

	"github.com/msto63/plankton/cmd/plankton/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
