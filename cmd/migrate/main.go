package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/pratik-mahalle/voltcast-alerts/internal/config"
	"github.com/pratik-mahalle/voltcast-alerts/internal/repository/postgres"
	"github.com/pratik-mahalle/voltcast-alerts/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Connect to database
	db, err := postgres.New(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database successfully\n", cfg.Database.Driver)

	// MIGRATIONS_DIR overrides the embedded files
	var migrationsFS fs.FS
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		migrationsFS = os.DirFS(dir)
	} else {
		migrationsFS, err = migrations.GetFS(cfg.Database.Driver)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load migrations: %v\n", err)
			os.Exit(1)
		}
	}

	applied, err := postgres.RunMigrations(db, postgres.DialectFor(cfg.Database.Driver), migrationsFS)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed after %d applied: %v\n", applied, err)
		os.Exit(1)
	}

	if applied == 0 {
		fmt.Println("No pending migrations")
		return
	}
	fmt.Printf("All migrations completed successfully! (%d applied)\n", applied)
}
