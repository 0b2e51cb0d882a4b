package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/atelier-labs/atelier/internal/cli"
)

func main() {
	// Optional .env for local defaults (ATELIER_FORMAT, NO_COLOR). A missing
	// file is not an error.
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
