package main

import (
	"flag"
	"log"

	"github.com/uptrace/bun/migrate"

	"github.com/aptwatch/listing-pipeline/pkg/config"
	"github.com/aptwatch/listing-pipeline/pkg/migrations/appdb"
	"github.com/aptwatch/listing-pipeline/pkg/pgutil"
	mghelper "github.com/aptwatch/listing-pipeline/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database %s: %s", cfg.Database.Database, err.Error())
	}
	defer db.Close()

	log.Printf("Running migrations for pipeline database (%s)...\n", cfg.Database.Database)

	migrator := migrate.NewMigrator(db, appdb.Migrations)
	if err := mghelper.RunMigrations(migrator, flag.Args()...); err != nil {
		mghelper.Exitf(err.Error())
	}
}
