// This file is used to mint API access tokens
// How to run:
// go run cmd/token/main.go -user alice             # 30 day token
// go run cmd/token/main.go -user alice -ttl 1h     # Custom lifetime
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/slidesmith/slidesmith/internal/auth"
	"github.com/slidesmith/slidesmith/internal/constants"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	var (
		userID = flag.String("user", "", "User ID the token identifies")
		ttl    = flag.Duration("ttl", 30*24*time.Hour, "Token lifetime")
	)
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	secret := os.Getenv(constants.EnvTokenSecret)
	if secret == "" {
		log.Fatalf("%s must be set", constants.EnvTokenSecret)
	}

	token, err := auth.NewManager(secret).CreateToken(*userID, *ttl)
	if err != nil {
		log.Fatalf("Failed to create token: %v", err)
	}

	fmt.Println(token)
}
