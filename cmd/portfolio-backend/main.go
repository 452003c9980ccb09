// Package main is the portfolio-backend entry point (HTTP + WebSocket).
package main

import (
	"log"

	"github.com/luizFelippedev/portfolio-backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
