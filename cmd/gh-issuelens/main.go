package main

import (
	"os"

	"github.com/luochenhu/gh-issuelens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
