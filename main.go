package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"near-intents/cmd"
	"near-intents/pkg/logger"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	logger.Init(&logger.Options{Writer: os.Stderr})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
