// Command migrate applies or reverts the registry's embedded schema
// migrations.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/JaimeStill/reception-registry/internal/config"
	"github.com/JaimeStill/reception-registry/migrations"
	"github.com/JaimeStill/reception-registry/pkg/database"
	"github.com/JaimeStill/reception-registry/pkg/logging"
)

const EnvMigrationURL = "DATABASE_MIGRATION_URL"

func main() {
	var (
		url  = flag.String("url", "", "pgx5:// database URL (defaults to config.toml)")
		down = flag.Bool("down", false, "Revert the most recent migration")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(&cfg.Logging).With("system", "migrate")

	if *url == "" {
		*url = os.Getenv(EnvMigrationURL)
	}
	if *url == "" {
		*url = cfg.Database.MigrationURL()
	}

	dir := database.Up
	if *down {
		dir = database.Down
	}

	if err := database.Migrate(*url, migrations.FS, dir, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}
