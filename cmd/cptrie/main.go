package main

import (
	"os"

	"github.com/aglyzov/cptrie/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
