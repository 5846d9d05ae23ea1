package main

import (
	"log"

	"github.com/axelvallin-balder/schedule-builder-sub001/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
