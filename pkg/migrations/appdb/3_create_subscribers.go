package appdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/aptwatch/listing-pipeline/pkg/notify"
	mghelper "github.com/aptwatch/listing-pipeline/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating subscribers table...")
		return mghelper.CreateSchema(ctx, db, &notify.SubscriberDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping subscribers table...")
		return mghelper.DropTables(ctx, db, &notify.SubscriberDao{})
	})
}
