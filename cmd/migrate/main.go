package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/pageza/allertrack/backend/config"
	"github.com/pageza/allertrack/backend/internal/database/migrations"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "Print migration status and exit")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("DATABASE_URL is not set and configuration failed to load: %v", err)
		}
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set dialect: %v", err)
	}

	ctx := context.Background()
	switch {
	case *status:
		err = goose.StatusContext(ctx, db, ".")
	case *rollback:
		err = goose.DownContext(ctx, db, ".")
	default:
		err = goose.UpContext(ctx, db, ".")
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		log.Fatalf("failed to read version: %v", err)
	}
	fmt.Printf("Database is at version %d\n", version)
}
