package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"labinventory/auth"
	"labinventory/infrastructure/sqlite"
)

func main() {
	_ = godotenv.Load()

	dbPath := getenv("SQLITE_PATH", "labinventory.db")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	username := getenv("ADMIN_USERNAME", "admin")
	password := getenv("ADMIN_PASSWORD", "Admin123!Inventory")
	if err := auth.UpsertAdminUser(context.Background(), db, username, password); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	fmt.Printf("seeded admin user (username=%s)\n", username)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
