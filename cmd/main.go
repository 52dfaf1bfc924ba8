package main

import (
	"os"

	"github.com/agentforge/mettakg/cmd/mettakg"
)

func main() {
	if err := mettakg.Execute(); err != nil {
		os.Exit(1)
	}
}
