package main

import (
	"os"

	"github.com/morler/scaff/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
