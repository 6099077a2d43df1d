package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/slidesmith/slidesmith/cmd/cli/commands"
)

func main() {
	// Load .env if present so env-based defaults work
	_ = godotenv.Load()

	if err := commands.RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
