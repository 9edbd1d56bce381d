package main

import (
	"os"

	"github.com/taskdeck/taskdeck/cmd/taskctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
