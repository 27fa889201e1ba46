package appdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/aptwatch/listing-pipeline/pkg/apartmentstore"
	mghelper "github.com/aptwatch/listing-pipeline/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating apartments table...")
		if err := mghelper.CreateSchema(ctx, db, &apartmentstore.ApartmentDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &apartmentstore.ApartmentDao{},
			"source", "is_active", "last_seen_at", "is_no_fee")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping apartments table...")
		return mghelper.DropTables(ctx, db, &apartmentstore.ApartmentDao{})
	})
}
