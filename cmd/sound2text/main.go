package main

import (
	"os"

	"github.com/sound2text/sound2text/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
