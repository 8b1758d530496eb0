package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/vncsmyrnk/userauth/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/userauth/internal/config"
)

const usage = "usage: migrations <up|down|status|version|redo|reset> [args...]"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}
	command := os.Args[1]

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, config.DatabaseURLFromEnv())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, command, os.Args[2:]...); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Migration command %q executed successfully.\n", command)
}
