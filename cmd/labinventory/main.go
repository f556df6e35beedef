package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"labinventory/imports"
	"labinventory/infrastructure/audit"
	"labinventory/infrastructure/cache"
	httpserver "labinventory/infrastructure/http"
	"labinventory/infrastructure/sqlite"
)

func main() {
	_ = godotenv.Load()

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "labinventory.db")
	uploadDir := getenv("UPLOAD_DIR", "")

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	files, err := imports.NewFileStore(uploadDir)
	if err != nil {
		log.Fatalf("init upload store: %v", err)
	}

	sessionCache := cache.NewUserSessionCache()
	tokens := imports.NewTokenManager(imports.DefaultTokenTTL)
	store := imports.NewStore(db, audit.NewService())
	importsHandler := imports.NewHandler(tokens, store, files)

	server := httpserver.NewServer(addr, db, sessionCache, importsHandler)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("labinventory listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
