package main

import (
	"os"

	"github.com/Aditya-Mallik-M/AutoAgents/cmd/fxagent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
