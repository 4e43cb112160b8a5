package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"StokCollect/internal/appmanager"
	"StokCollect/internal/database"
)

func main() {
	// Load .env for local dev
	_ = godotenv.Load(".env")

	ctx := context.Background()

	pool, err := database.NewPgxPool(ctx)
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	if err := database.Bootstrap(ctx, pool); err != nil {
		log.Fatal("failed to bootstrap schema:", err)
	}
	appmanager.SetPgxPool(pool)

	sqlDB, err := database.NewSQLDB()
	if err != nil {
		log.Fatal("failed to open reporting DB:", err)
	}
	appmanager.SetDB(sqlDB)

	manager := appmanager.NewAppManager()

	// Load service configs from YAML
	servicesCfg, err := appmanager.LoadServiceSequence("services.yaml")
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}

	// Automatically register all services
	manager.AutoRegisterServices(servicesCfg)

	// Start all services
	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	// Stop all services
	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
	pool.Close()
	sqlDB.Close()
}
