package main

import (
	"os"

	"github.com/openhvx/hvxctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
