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
		log.Println("creating notifications table...")
		if err := mghelper.CreateSchema(ctx, db, &notify.NotificationDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &notify.NotificationDao{}, "subscriber_id", "session_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping notifications table...")
		return mghelper.DropTables(ctx, db, &notify.NotificationDao{})
	})
}
