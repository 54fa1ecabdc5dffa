package reportqueries

import (
	"context"

	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultTopStudents is used when TopStudents is asked for n <= 0.
const DefaultTopStudents = 3

// TopStudent is a ranked student.
type TopStudent struct {
	StudentID  primitive.ObjectID `bson:"student_id" json:"student_id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Department string             `bson:"department" json:"department"`
	GPA        float64            `bson:"gpa" json:"gpa"`
}

// TopStudents returns the n students with the highest stored GPA. Ties keep
// insertion order. Students without a GPA are not ranked.
func TopStudents(ctx context.Context, db *mongo.Database, n int) ([]TopStudent, error) {
	if n <= 0 {
		n = DefaultTopStudents
	}

	pipeline := []bson.M{
		{"$match": bson.M{"GPA": bson.M{"$type": "number"}}},
		{"$sort": bson.D{{Key: "GPA", Value: -1}, {Key: "_id", Value: 1}}},
		{"$limit": n},
		{"$project": bson.M{
			"_id":        0,
			"student_id": "$_id",
			"name":       fullName("$$ROOT"),
			"email":      1,
			"department": "$department.department_name",
			"gpa":        bson.M{"$round": bson.A{"$GPA", 2}},
		}},
	}

	return aggregate[TopStudent](ctx, db.Collection(models.StudentsCollection), pipeline)
}
