package main

import (
	"os"

	"github.com/sitekit-dev/sitekit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
