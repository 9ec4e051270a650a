package main

import (
	"os"

	"github.com/go-drift/sceneloop/cmd/sceneloop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
