package reportqueries

import (
	"context"

	"github.com/mziyad24/academicrecords/internal/domain/grades"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SemesterGPARow is a student's GPA for one semester.
type SemesterGPARow struct {
	StudentID   primitive.ObjectID `bson:"student_id" json:"student_id"`
	Student     string             `bson:"student" json:"student"`
	SemesterID  primitive.ObjectID `bson:"semester_id" json:"semester_id"`
	Semester    string             `bson:"semester" json:"semester"`
	CourseCount int64              `bson:"course_count" json:"course_count"`
	GPA         float64            `bson:"gpa" json:"gpa"`
}

// SemesterGPA averages grade points per (student, semester) over graded
// enrollments only. Rows are ordered by GPA descending, then student name.
func SemesterGPA(ctx context.Context, db *mongo.Database) ([]SemesterGPARow, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"grade": bson.M{"$in": grades.LettersArray()}}},
		{"$group": bson.M{
			"_id": bson.M{
				"student_id":  "$student_id",
				"semester_id": "$semester_id",
			},
			"gpa":          bson.M{"$avg": grades.PointsExpr("$grade")},
			"course_count": bson.M{"$sum": 1},
		}},
	}
	pipeline = append(pipeline, lookupOne(models.StudentsCollection, "_id.student_id", "student")...)
	pipeline = append(pipeline, lookupOne(models.SemestersCollection, "_id.semester_id", "semester")...)
	pipeline = append(pipeline,
		bson.M{"$project": bson.M{
			"_id":          0,
			"student_id":   "$_id.student_id",
			"student":      fullName("$student"),
			"semester_id":  "$_id.semester_id",
			"semester":     "$semester.name",
			"course_count": 1,
			"gpa":          bson.M{"$round": bson.A{"$gpa", 2}},
		}},
		bson.M{"$sort": bson.D{
			{Key: "gpa", Value: -1},
			{Key: "student", Value: 1},
			{Key: "semester", Value: 1},
		}},
	)

	return aggregate[SemesterGPARow](ctx, db.Collection(models.EnrollmentsCollection), pipeline)
}
