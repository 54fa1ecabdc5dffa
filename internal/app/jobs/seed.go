package jobs

import (
	"context"

	"github.com/mziyad24/academicrecords/internal/app/seed"
	"github.com/mziyad24/academicrecords/internal/app/system/indexes"
	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RunSeed makes sure the uniqueness indexes exist and then loads the
// embedded dataset in one transaction.
func RunSeed(ctx context.Context, db *mongo.Database, logger *zap.Logger) (seed.Result, error) {
	logger = nopIfNil(logger)

	var res seed.Result
	err := runSteps(ctx, logger, []Step{
		{Name: "ensure indexes", Timeout: timeouts.Long, Run: func(ctx context.Context) error {
			return indexes.EnsureAll(ctx, db)
		}},
		{Name: "load dataset", Timeout: timeouts.Long, Run: func(ctx context.Context) error {
			ds, err := seed.Default()
			if err != nil {
				return err
			}
			res, err = seed.Load(ctx, db, ds, logger)
			return err
		}},
	})
	if err != nil {
		return seed.Result{}, err
	}
	return res, nil
}
