package studentstore

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/mziyad24/academicrecords/internal/app/system/normalize"
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
	return &Store{c: db.Collection(models.StudentsCollection)}
}

var (
	// ErrDuplicateEmail is returned when a write would give two students the same email.
	ErrDuplicateEmail = errors.New("a student with this email already exists")
	errEmptyEmail     = errors.New("email must not be empty")
	errBadLevel       = errors.New("level must be positive")
)

// byGPA orders students by stored GPA, highest first. Ties keep insertion order.
var byGPA = bson.D{{Key: "GPA", Value: -1}, {Key: "_id", Value: 1}}

// GetByID loads a student by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Student, error) {
	var st models.Student
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetByEmail looks up a student by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	var st models.Student
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

func prepare(st models.Student) (models.Student, error) {
	if st.ID.IsZero() {
		st.ID = primitive.NewObjectID()
	}
	st.FirstName = normalize.Name(st.FirstName)
	st.LastName = normalize.Name(st.LastName)
	st.Email = normalize.Email(st.Email)
	st.Department.Faculty = normalize.Name(st.Department.Faculty)
	st.Department.DepartmentName = normalize.Code(st.Department.DepartmentName)
	if st.Email == "" {
		return models.Student{}, errEmptyEmail
	}
	if st.Level <= 0 {
		return models.Student{}, errBadLevel
	}
	return st, nil
}

// Create inserts a new student after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, st models.Student) (models.Student, error) {
	st, err := prepare(st)
	if err != nil {
		return models.Student{}, err
	}
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Student{}, ErrDuplicateEmail
		}
		return models.Student{}, err
	}
	return st, nil
}

// InsertMany inserts students in order and returns their IDs in input order.
// Pass a transaction context to make the batch part of a larger unit of work.
func (s *Store) InsertMany(ctx context.Context, students []models.Student) ([]primitive.ObjectID, error) {
	if len(students) == 0 {
		return []primitive.ObjectID{}, nil
	}
	ids := make([]primitive.ObjectID, 0, len(students))
	docs := make([]interface{}, 0, len(students))
	for _, st := range students {
		st, err := prepare(st)
		if err != nil {
			return nil, err
		}
		ids = append(ids, st.ID)
		docs = append(docs, st)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return ids, nil
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Student, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(byGPA))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Student{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByDepartment returns the students of a department (e.g. "IS"), best GPA first.
func (s *Store) ListByDepartment(ctx context.Context, dept string) ([]models.Student, error) {
	return s.list(ctx, bson.M{"department.department_name": normalize.Code(dept)})
}

// ListAboveGPA returns students whose stored GPA is strictly greater than
// threshold, best GPA first. Students without a GPA never match.
func (s *Store) ListAboveGPA(ctx context.Context, threshold float64) ([]models.Student, error) {
	return s.list(ctx, bson.M{"GPA": bson.M{"$gt": threshold}})
}

// UpdateOutcome reports how many students an update touched.
type UpdateOutcome struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

// UpdateEmail changes a student's email from oldEmail to newEmail.
// No matching student is reported as Matched == 0, not as an error.
// Returns ErrDuplicateEmail if newEmail already belongs to another student.
func (s *Store) UpdateEmail(ctx context.Context, oldEmail, newEmail string) (UpdateOutcome, error) {
	newEmail = normalize.Email(newEmail)
	if newEmail == "" {
		return UpdateOutcome{}, errEmptyEmail
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(oldEmail)},
		bson.M{"$set": bson.M{"email": newEmail}},
	)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return UpdateOutcome{}, ErrDuplicateEmail
		}
		return UpdateOutcome{}, err
	}
	return UpdateOutcome{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

// FindSampleByLevel returns the first student (by insertion order) at the
// given level. found is false when no student is at that level.
func (s *Store) FindSampleByLevel(ctx context.Context, level int) (st models.Student, found bool, err error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	err = s.c.FindOne(ctx, bson.M{"level": level}, opts).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return models.Student{}, false, nil
	}
	if err != nil {
		return models.Student{}, false, err
	}
	return st, true, nil
}

// Count returns the number of students.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.D{})
}
