package testutil

import (
	"context"
	"testing"

	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// GPA returns a pointer to v, for Student.GPA literals.
func GPA(v float64) *float64 {
	return &v
}

// CreateStudent creates a test student in the given department.
// Pass a nil gpa for a student without a stored GPA.
func (f *Fixtures) CreateStudent(ctx context.Context, fname, lname, email, dept string, gpa *float64) models.Student {
	f.t.Helper()

	s := models.Student{
		ID:        primitive.NewObjectID(),
		FirstName: fname,
		LastName:  lname,
		Email:     email,
		Level:     3,
		GPA:       gpa,
		Department: models.Department{
			Faculty:        "Computer Science",
			DepartmentName: dept,
		},
	}

	if _, err := f.db.Collection(models.StudentsCollection).InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return s
}

// CreateStudentAtLevel creates a test student with an explicit level.
func (f *Fixtures) CreateStudentAtLevel(ctx context.Context, fname, lname, email string, level int) models.Student {
	f.t.Helper()

	s := models.Student{
		ID:        primitive.NewObjectID(),
		FirstName: fname,
		LastName:  lname,
		Email:     email,
		Level:     level,
		Department: models.Department{
			Faculty:        "Computer Science",
			DepartmentName: "CS",
		},
	}

	if _, err := f.db.Collection(models.StudentsCollection).InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return s
}

// CreateCourse creates a test course.
func (f *Fixtures) CreateCourse(ctx context.Context, name, code, dept string) models.Course {
	f.t.Helper()

	c := models.Course{
		ID:             primitive.NewObjectID(),
		Name:           name,
		Code:           code,
		DepartmentName: dept,
	}

	if _, err := f.db.Collection(models.CoursesCollection).InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return c
}

// CreateSemester creates a test semester.
func (f *Fixtures) CreateSemester(ctx context.Context, name string) models.Semester {
	f.t.Helper()

	s := models.Semester{
		ID:   primitive.NewObjectID(),
		Name: name,
	}

	if _, err := f.db.Collection(models.SemestersCollection).InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test semester: %v", err)
	}
	return s
}

// CreateEnrollment enrolls a student in a course for a semester.
// An empty grade leaves the enrollment ungraded.
func (f *Fixtures) CreateEnrollment(ctx context.Context, studentID, courseID, semesterID primitive.ObjectID, grade string) models.Enrollment {
	f.t.Helper()

	e := models.Enrollment{
		ID:         primitive.NewObjectID(),
		StudentID:  studentID,
		CourseID:   courseID,
		SemesterID: semesterID,
		Grade:      grade,
	}

	if _, err := f.db.Collection(models.EnrollmentsCollection).InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test enrollment: %v", err)
	}
	return e
}

// Count returns the number of documents in a collection.
func (f *Fixtures) Count(ctx context.Context, collection string) int64 {
	f.t.Helper()

	n, err := f.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		f.t.Fatalf("count %s: %v", collection, err)
	}
	return n
}
