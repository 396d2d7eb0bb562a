package main

import (
	"os"

	"github.com/kepler-college/campusbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
