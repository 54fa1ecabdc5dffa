// Command createindexes attaches collection validators and ensures every
// index exists. Safe to run repeatedly.
package main

import (
	"context"
	"os"

	"github.com/mziyad24/academicrecords/internal/app/bootstrap"
	"github.com/mziyad24/academicrecords/internal/app/jobs"
	"github.com/mziyad24/academicrecords/internal/app/system/script"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	os.Exit(script.Main("createindexes", func(ctx context.Context, db *mongo.Database, _ bootstrap.AppConfig, logger *zap.Logger) (any, error) {
		return jobs.RunSchema(ctx, db, logger)
	}))
}
