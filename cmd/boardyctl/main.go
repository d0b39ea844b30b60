// Command boardyctl runs maintenance tasks against the Boardy database.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
