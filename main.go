package main

import (
	"log"

	"github.com/preppilot/preppilot-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
