package semesterstore

import (
	"context"
	"errors"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/mziyad24/academicrecords/internal/app/system/normalize"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.SemestersCollection)}
}

var (
	// ErrDuplicateName is returned when a semester name is already taken.
	ErrDuplicateName = errors.New("a semester with this name already exists")
	errEmptyName     = errors.New("semester name must not be empty")
)

func prepare(sem models.Semester) (models.Semester, error) {
	if sem.ID.IsZero() {
		sem.ID = primitive.NewObjectID()
	}
	sem.Name = normalize.Name(sem.Name)
	if sem.Name == "" {
		return models.Semester{}, errEmptyName
	}
	return sem, nil
}

// Create inserts a single semester.
func (s *Store) Create(ctx context.Context, sem models.Semester) (models.Semester, error) {
	sem, err := prepare(sem)
	if err != nil {
		return models.Semester{}, err
	}
	if _, err := s.c.InsertOne(ctx, sem); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Semester{}, ErrDuplicateName
		}
		return models.Semester{}, err
	}
	return sem, nil
}

// InsertMany inserts semesters in order and returns their IDs in input order.
func (s *Store) InsertMany(ctx context.Context, sems []models.Semester) ([]primitive.ObjectID, error) {
	if len(sems) == 0 {
		return []primitive.ObjectID{}, nil
	}
	ids := make([]primitive.ObjectID, 0, len(sems))
	docs := make([]interface{}, 0, len(sems))
	for _, sem := range sems {
		sem, err := prepare(sem)
		if err != nil {
			return nil, err
		}
		ids = append(ids, sem.ID)
		docs = append(docs, sem)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return ids, nil
}

// GetByName looks up a semester by exact name.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Semester, error) {
	var sem models.Semester
	if err := s.c.FindOne(ctx, bson.M{"name": normalize.Name(name)}).Decode(&sem); err != nil {
		return nil, err
	}
	return &sem, nil
}
