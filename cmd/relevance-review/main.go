package main

import (
	"os"

	"github.com/mcao2/relevance-review/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
