package main

import (
	"os"
	"slices"

	"github.com/justyntemme/skiff/internal/cli"
	"github.com/justyntemme/skiff/internal/log"
)

func main() {
	// subcommands print to the console; only the GUI detaches from it
	keep := slices.Contains(os.Args[1:], "--debug") || len(os.Args) > 1 && isSubcommand(os.Args[1])
	manageConsole(keep)

	err := cli.NewRootCmd().Execute()
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func isSubcommand(arg string) bool {
	switch arg {
	case "ls", "config", "help", "completion":
		return true
	}
	return false
}
