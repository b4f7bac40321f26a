package main

import (
	"os"

	"github.com/nanofuxion/tamer4lynx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
