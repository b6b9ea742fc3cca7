package main

import (
	"os"

	"github.com/justyntemme/skiff/internal/cli"
	"github.com/justyntemme/skiff/internal/log"
)

func main() {
	err := cli.NewDaemonCmd().Execute()
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
