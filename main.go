package main

import (
	"os"

	"github.com/arlab/arlab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
