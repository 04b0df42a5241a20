package main

import (
	"os"

	"github.com/atistler/arcus/cmd/arcus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
