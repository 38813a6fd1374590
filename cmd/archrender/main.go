package main

import (
	"os"

	"github.com/basel-ax/archrender/cmd/archrender/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError("%v", err)
		os.Exit(1)
	}
}
