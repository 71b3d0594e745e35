package main

import (
	"os"

	"pascals/cmd/pascals/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
