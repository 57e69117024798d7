// Package main - утилита управления миграциями схемы базы данных.
//
// Использование:
//
//	migrate up      применить все неприменённые миграции
//	migrate down    откатить последнюю применённую миграцию
//	migrate status  показать состояние миграций
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alem-hub/school-records/config"
	"github.com/alem-hub/school-records/internal/infrastructure/persistence/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		usage()
		return fmt.Errorf("missing command")
	}
	cmd := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	migrator := postgres.NewMigrator(conn)

	switch cmd {
	case "up":
		if err := migrator.Migrate(ctx); err != nil {
			return err
		}
		fmt.Println("migrations applied")
		return printStatus(ctx, migrator)

	case "down":
		if err := migrator.Rollback(ctx); err != nil {
			return err
		}
		fmt.Println("last migration rolled back")
		return printStatus(ctx, migrator)

	case "status":
		return printStatus(ctx, migrator)

	default:
		usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printStatus(ctx context.Context, migrator *postgres.Migrator) error {
	status, err := migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Println("version  applied  name")
	for _, m := range status {
		applied := "no"
		if m.IsApplied {
			applied = "yes"
		}
		fmt.Printf("%-8d %-8s %s\n", m.Version, applied, m.Name)
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate <up|down|status>")
}
