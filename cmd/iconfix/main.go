package main

import (
	"os"

	"github.com/sokinpui/iconfix/cli"
	"github.com/sokinpui/iconfix/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		ui.Error("Error: %v", err)
		os.Exit(1)
	}
}
