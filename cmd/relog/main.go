package main

import (
	"fmt"
	"os"

	"github.com/relog-dev/relog/cmd/relog/commands"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := commands.NewRootCmd(Version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", commands.ErrorColor, err, commands.ResetColor)
		os.Exit(1)
	}
}
