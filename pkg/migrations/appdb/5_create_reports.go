package appdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/aptwatch/listing-pipeline/pkg/pgutil/migrations"
	"github.com/aptwatch/listing-pipeline/pkg/report"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating reports table...")
		if err := mghelper.CreateSchema(ctx, db, &report.ReportDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &report.ReportDao{}, "date")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping reports table...")
		return mghelper.DropTables(ctx, db, &report.ReportDao{})
	})
}
