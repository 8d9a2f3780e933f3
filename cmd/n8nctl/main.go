package main

import (
	"os"

	"github.com/n8nops/n8nctl/cmd/n8nctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
