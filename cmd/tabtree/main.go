package main

import (
	"log"

	"tableflip.dev/tabtree/pkg/commands"
)

func main() {
	log.SetFlags(0)
	if err := commands.New().Execute(); err != nil {
		log.Fatalf("tabtree: %v", err)
	}
}
