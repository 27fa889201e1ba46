// Package appdb holds all the migrations for the listing pipeline database
package appdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the pipeline database
var Migrations = migrate.NewMigrations()
