// Command aggregations prints the transcript, semester GPA, course
// statistics and top student reports.
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
	os.Exit(script.Main("aggregations", func(ctx context.Context, db *mongo.Database, cfg bootstrap.AppConfig, logger *zap.Logger) (any, error) {
		return jobs.RunReports(ctx, db, cfg.ReportParams(), logger)
	}))
}
