package reportqueries

import (
	"context"
	"strconv"

	"github.com/mziyad24/academicrecords/internal/domain/grades"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CourseStatsRow summarizes the graded enrollments of one course.
type CourseStatsRow struct {
	CourseID          primitive.ObjectID `bson:"course_id" json:"course_id"`
	Course            string             `bson:"course" json:"course"`
	CourseCode        string             `bson:"course_code" json:"course_code"`
	StudentCount      int64              `bson:"student_count" json:"student_count"`
	AvgGrade          float64            `bson:"avg_grade" json:"avg_grade"`
	GradeDistribution map[string]int64   `bson:"grade_distribution" json:"grade_distribution"`
}

// CourseStats counts graded enrollments per course, averages their grade
// points and tallies every letter on the scale (zero when absent). Rows are
// ordered by average descending, then course name.
func CourseStats(ctx context.Context, db *mongo.Database) ([]CourseStatsRow, error) {
	group := bson.M{
		"_id":           "$course_id",
		"student_count": bson.M{"$sum": 1},
		"avg_grade":     bson.M{"$avg": grades.PointsExpr("$grade")},
	}
	distribution := bson.M{}
	for i, l := range grades.Letters() {
		// Letters like "A+" are fine as output keys but not as $group field names.
		field := "g" + strconv.Itoa(i)
		group[field] = bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$grade", l}}, 1, 0}}}
		distribution[l] = "$" + field
	}

	pipeline := []bson.M{
		{"$match": bson.M{"grade": bson.M{"$in": grades.LettersArray()}}},
		{"$group": group},
	}
	pipeline = append(pipeline, lookupOne(models.CoursesCollection, "_id", "course")...)
	pipeline = append(pipeline,
		bson.M{"$project": bson.M{
			"_id":                0,
			"course_id":          "$_id",
			"course":             "$course.course_name",
			"course_code":        "$course.course_code",
			"student_count":      1,
			"avg_grade":          bson.M{"$round": bson.A{"$avg_grade", 2}},
			"grade_distribution": distribution,
		}},
		bson.M{"$sort": bson.D{
			{Key: "avg_grade", Value: -1},
			{Key: "course", Value: 1},
		}},
	)

	return aggregate[CourseStatsRow](ctx, db.Collection(models.EnrollmentsCollection), pipeline)
}
