package appdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/aptwatch/listing-pipeline/pkg/pgutil/migrations"
	"github.com/aptwatch/listing-pipeline/pkg/sessionstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating import_sessions table...")
		if err := mghelper.CreateSchema(ctx, db, &sessionstore.SessionDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &sessionstore.SessionDao{}, "status", "started_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping import_sessions table...")
		return mghelper.DropTables(ctx, db, &sessionstore.SessionDao{})
	})
}
