package main

import (
	"os"

	"github.com/caryhaynie/opentk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
