package jobs

import (
	"context"

	"github.com/mziyad24/academicrecords/internal/app/store/queries/reportqueries"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ReportParams tunes RunReports.
type ReportParams struct {
	TopN int
}

// Reports is the output of the aggregations workload.
type Reports struct {
	Transcripts []reportqueries.StudentTranscript `json:"transcripts"`
	SemesterGPA []reportqueries.SemesterGPARow    `json:"semester_gpa"`
	CourseStats []reportqueries.CourseStatsRow    `json:"course_stats"`
	TopStudents []reportqueries.TopStudent        `json:"top_students"`
}

// RunReports runs the four aggregation reports in order.
func RunReports(ctx context.Context, db *mongo.Database, p ReportParams, logger *zap.Logger) (Reports, error) {
	logger = nopIfNil(logger)

	var out Reports
	err := runSteps(ctx, logger, []Step{
		{Name: "transcripts", Run: func(ctx context.Context) error {
			rows, err := reportqueries.Transcript(ctx, db)
			if err != nil {
				return err
			}
			out.Transcripts = reportqueries.GroupTranscripts(rows)
			return nil
		}},
		{Name: "semester gpa", Run: func(ctx context.Context) (err error) {
			out.SemesterGPA, err = reportqueries.SemesterGPA(ctx, db)
			return err
		}},
		{Name: "course stats", Run: func(ctx context.Context) (err error) {
			out.CourseStats, err = reportqueries.CourseStats(ctx, db)
			return err
		}},
		{Name: "top students", Run: func(ctx context.Context) (err error) {
			out.TopStudents, err = reportqueries.TopStudents(ctx, db, p.TopN)
			return err
		}},
	})
	if err != nil {
		return Reports{}, err
	}
	return out, nil
}
