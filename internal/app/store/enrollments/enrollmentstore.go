package enrollmentstore

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/mziyad24/academicrecords/internal/app/system/normalize"
	"github.com/mziyad24/academicrecords/internal/domain/grades"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.EnrollmentsCollection)}
}

var (
	// ErrDuplicateEnrollment is returned when the student is already enrolled
	// in the course for that semester.
	ErrDuplicateEnrollment = errors.New("student is already enrolled in this course for this semester")
	// ErrInvalidGrade is returned for a grade outside the grade scale.
	ErrInvalidGrade = errors.New("grade is not on the grade scale")
	errMissingRef   = errors.New("student_id, course_id and semester_id are required")
)

func prepare(e models.Enrollment) (models.Enrollment, error) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.StudentID.IsZero() || e.CourseID.IsZero() || e.SemesterID.IsZero() {
		return models.Enrollment{}, errMissingRef
	}
	e.Grade = normalize.Grade(e.Grade)
	if e.Grade != "" && !grades.Valid(e.Grade) {
		return models.Enrollment{}, ErrInvalidGrade
	}
	return e, nil
}

// Create inserts a single enrollment.
func (s *Store) Create(ctx context.Context, e models.Enrollment) (models.Enrollment, error) {
	e, err := prepare(e)
	if err != nil {
		return models.Enrollment{}, err
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Enrollment{}, ErrDuplicateEnrollment
		}
		return models.Enrollment{}, err
	}
	return e, nil
}

// InsertMany inserts enrollments in order and returns their IDs in input order.
func (s *Store) InsertMany(ctx context.Context, es []models.Enrollment) ([]primitive.ObjectID, error) {
	if len(es) == 0 {
		return []primitive.ObjectID{}, nil
	}
	ids := make([]primitive.ObjectID, 0, len(es))
	docs := make([]interface{}, 0, len(es))
	for _, e := range es {
		e, err := prepare(e)
		if err != nil {
			return nil, err
		}
		ids = append(ids, e.ID)
		docs = append(docs, e)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEnrollment
		}
		return nil, err
	}
	return ids, nil
}

// ListByStudent returns a student's enrollments in insertion order.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Enrollment, error) {
	cur, err := s.c.Find(ctx, bson.M{"student_id": studentID}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Enrollment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOneByGrade deletes the first enrollment (insertion order) carrying
// grade. Returns the number deleted (0 or 1); zero is not an error.
func (s *Store) DeleteOneByGrade(ctx context.Context, grade string) (int64, error) {
	grade = normalize.Grade(grade)
	if !grades.Valid(grade) {
		return 0, ErrInvalidGrade
	}
	// DeleteOne has no sort, so pick the target first.
	var target struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1})
	err := s.c.FindOne(ctx, bson.M{"grade": grade}, opts).Decode(&target)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": target.ID, "grade": grade})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of enrollments.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.D{})
}
