package coursestore

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
	return &Store{c: db.Collection(models.CoursesCollection)}
}

var (
	// ErrDuplicateCode is returned when a course code is already taken.
	ErrDuplicateCode = errors.New("a course with this code already exists")
	errEmptyCode     = errors.New("course_code must not be empty")
	errEmptyName     = errors.New("course_name must not be empty")
)

func prepare(c models.Course) (models.Course, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.Name = normalize.Name(c.Name)
	c.Code = normalize.Code(c.Code)
	c.DepartmentName = normalize.Code(c.DepartmentName)
	if c.Name == "" {
		return models.Course{}, errEmptyName
	}
	if c.Code == "" {
		return models.Course{}, errEmptyCode
	}
	return c, nil
}

// Create inserts a single course.
func (s *Store) Create(ctx context.Context, c models.Course) (models.Course, error) {
	c, err := prepare(c)
	if err != nil {
		return models.Course{}, err
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Course{}, ErrDuplicateCode
		}
		return models.Course{}, err
	}
	return c, nil
}

// InsertMany inserts courses in order and returns their IDs in input order.
func (s *Store) InsertMany(ctx context.Context, courses []models.Course) ([]primitive.ObjectID, error) {
	if len(courses) == 0 {
		return []primitive.ObjectID{}, nil
	}
	ids := make([]primitive.ObjectID, 0, len(courses))
	docs := make([]interface{}, 0, len(courses))
	for _, c := range courses {
		c, err := prepare(c)
		if err != nil {
			return nil, err
		}
		ids = append(ids, c.ID)
		docs = append(docs, c)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	return ids, nil
}

// GetByCode looks up a course by code (case-insensitive). Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	var c models.Course
	if err := s.c.FindOne(ctx, bson.M{"course_code": normalize.Code(code)}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all courses ordered by code.
func (s *Store) List(ctx context.Context) ([]models.Course, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "course_code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
