package main

import (
	"os"

	"github.com/datalift/datalift/cmd/datalift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
