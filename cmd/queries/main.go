// Command queries runs the fixed sequence of lookups, one email update and
// one enrollment delete, then prints what each step did.
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
	os.Exit(script.Main("queries", func(ctx context.Context, db *mongo.Database, cfg bootstrap.AppConfig, logger *zap.Logger) (any, error) {
		return jobs.RunQueries(ctx, db, cfg.QueryParams(), logger)
	}))
}
