package jobs

import (
	"context"
	"sort"

	"github.com/mziyad24/academicrecords/internal/app/system/indexes"
	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
	"github.com/mziyad24/academicrecords/internal/app/system/validators"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SchemaReport lists the indexes present per collection after setup.
type SchemaReport struct {
	Indexes map[string][]string `json:"indexes"`
}

// RunSchema attaches the collection validators and reconciles indexes.
func RunSchema(ctx context.Context, db *mongo.Database, logger *zap.Logger) (SchemaReport, error) {
	logger = nopIfNil(logger)
	report := SchemaReport{Indexes: map[string][]string{}}

	err := runSteps(ctx, logger, []Step{
		{Name: "ensure validators", Timeout: timeouts.Long, Run: func(ctx context.Context) error {
			return validators.EnsureAll(ctx, db)
		}},
		{Name: "ensure indexes", Timeout: timeouts.Long, Run: func(ctx context.Context) error {
			return indexes.EnsureAll(ctx, db)
		}},
		{Name: "list indexes", Timeout: timeouts.Short, Run: func(ctx context.Context) error {
			for _, coll := range []string{
				models.StudentsCollection,
				models.CoursesCollection,
				models.SemestersCollection,
				models.EnrollmentsCollection,
			} {
				names, err := indexNames(ctx, db.Collection(coll))
				if err != nil {
					return err
				}
				report.Indexes[coll] = names
			}
			return nil
		}},
	})
	if err != nil {
		return SchemaReport{}, err
	}
	return report, nil
}

func indexNames(ctx context.Context, c *mongo.Collection) ([]string, error) {
	cur, err := c.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	names := []string{}
	for cur.Next(ctx) {
		var spec bson.M
		if err := cur.Decode(&spec); err != nil {
			return nil, err
		}
		if n, ok := spec["name"].(string); ok {
			names = append(names, n)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
