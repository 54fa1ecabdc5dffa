// Package seed loads the fixed academic dataset in a single transaction.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	coursestore "github.com/mziyad24/academicrecords/internal/app/store/courses"
	enrollmentstore "github.com/mziyad24/academicrecords/internal/app/store/enrollments"
	semesterstore "github.com/mziyad24/academicrecords/internal/app/store/semesters"
	studentstore "github.com/mziyad24/academicrecords/internal/app/store/students"
	"github.com/mziyad24/academicrecords/internal/app/system/normalize"
	"github.com/mziyad24/academicrecords/internal/app/system/txn"
	"github.com/mziyad24/academicrecords/internal/domain/grades"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var defaultYAML []byte

// ErrInvalidDataset is wrapped by every Validate failure.
var ErrInvalidDataset = errors.New("invalid seed dataset")

// EnrollmentRef names an enrollment's parents by their natural keys.
type EnrollmentRef struct {
	Student  string `yaml:"student"`
	Course   string `yaml:"course"`
	Semester string `yaml:"semester"`
	Grade    string `yaml:"grade,omitempty"`
}

// Dataset is the declarative seed fixture.
type Dataset struct {
	Students    []models.Student  `yaml:"students"`
	Courses     []models.Course   `yaml:"courses"`
	Semesters   []models.Semester `yaml:"semesters"`
	Enrollments []EnrollmentRef   `yaml:"enrollments"`
}

var (
	defaultOnce sync.Once
	defaultDS   Dataset
	defaultErr  error
)

// Default returns the embedded dataset. It is parsed once; callers get a copy
// of the top-level slices and may modify them freely.
func Default() (Dataset, error) {
	defaultOnce.Do(func() {
		defaultDS, defaultErr = Parse(defaultYAML)
	})
	if defaultErr != nil {
		return Dataset{}, defaultErr
	}
	return Dataset{
		Students:    append([]models.Student(nil), defaultDS.Students...),
		Courses:     append([]models.Course(nil), defaultDS.Courses...),
		Semesters:   append([]models.Semester(nil), defaultDS.Semesters...),
		Enrollments: append([]EnrollmentRef(nil), defaultDS.Enrollments...),
	}, nil
}

// Parse decodes a YAML dataset and validates it.
func Parse(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse seed dataset: %w", err)
	}
	if err := Validate(ds); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

type triple struct{ student, course, semester string }

// Validate checks that natural keys are unique, every enrollment reference
// resolves, no (student, course, semester) repeats and grades are on the scale
// or empty.
func Validate(ds Dataset) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidDataset, fmt.Sprintf(format, args...))
	}

	emails := make(map[string]bool, len(ds.Students))
	for i, st := range ds.Students {
		e := normalize.Email(st.Email)
		if e == "" {
			return invalid("student %d has no email", i)
		}
		if emails[e] {
			return invalid("duplicate student email %q", e)
		}
		emails[e] = true
	}

	codes := make(map[string]bool, len(ds.Courses))
	for i, c := range ds.Courses {
		code := normalize.Code(c.Code)
		if code == "" {
			return invalid("course %d has no code", i)
		}
		if codes[code] {
			return invalid("duplicate course code %q", code)
		}
		codes[code] = true
	}

	names := make(map[string]bool, len(ds.Semesters))
	for i, sem := range ds.Semesters {
		n := normalize.Name(sem.Name)
		if n == "" {
			return invalid("semester %d has no name", i)
		}
		if names[n] {
			return invalid("duplicate semester %q", n)
		}
		names[n] = true
	}

	seen := make(map[triple]bool, len(ds.Enrollments))
	for i, e := range ds.Enrollments {
		k := triple{normalize.Email(e.Student), normalize.Code(e.Course), normalize.Name(e.Semester)}
		switch {
		case !emails[k.student]:
			return invalid("enrollment %d: unknown student %q", i, e.Student)
		case !codes[k.course]:
			return invalid("enrollment %d: unknown course %q", i, e.Course)
		case !names[k.semester]:
			return invalid("enrollment %d: unknown semester %q", i, e.Semester)
		case seen[k]:
			return invalid("enrollment %d: %s already enrolled in %s for %s", i, k.student, k.course, k.semester)
		}
		if g := normalize.Grade(e.Grade); g != "" && !grades.Valid(g) {
			return invalid("enrollment %d: grade %q is not on the scale", i, e.Grade)
		}
		seen[k] = true
	}
	return nil
}

// Inserted counts the documents written per collection.
type Inserted struct {
	Students    int `json:"students"`
	Courses     int `json:"courses"`
	Semesters   int `json:"semesters"`
	Enrollments int `json:"enrollments"`
}

// IDs holds generated IDs in dataset order.
type IDs struct {
	Students    []primitive.ObjectID `json:"students"`
	Courses     []primitive.ObjectID `json:"courses"`
	Semesters   []primitive.ObjectID `json:"semesters"`
	Enrollments []primitive.ObjectID `json:"enrollments"`
}

// Result summarizes a committed seed.
type Result struct {
	Inserted Inserted `json:"inserted"`
	IDs      IDs      `json:"ids"`
}

// Load validates ds and inserts students, courses, semesters and then
// enrollments in one transaction. On any error nothing is written.
func Load(ctx context.Context, db *mongo.Database, ds Dataset, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := Validate(ds); err != nil {
		return Result{}, err
	}

	students := studentstore.New(db)
	courses := coursestore.New(db)
	semesters := semesterstore.New(db)
	enrollments := enrollmentstore.New(db)

	var res Result
	err := txn.Run(ctx, db, logger, func(ctx context.Context) error {
		// WithTransaction may retry fn; start from a clean result each attempt.
		res = Result{}

		studentIDs, err := students.InsertMany(ctx, ds.Students)
		if err != nil {
			return fmt.Errorf("insert students: %w", err)
		}
		courseIDs, err := courses.InsertMany(ctx, ds.Courses)
		if err != nil {
			return fmt.Errorf("insert courses: %w", err)
		}
		semesterIDs, err := semesters.InsertMany(ctx, ds.Semesters)
		if err != nil {
			return fmt.Errorf("insert semesters: %w", err)
		}

		byEmail := make(map[string]primitive.ObjectID, len(studentIDs))
		for i, st := range ds.Students {
			byEmail[normalize.Email(st.Email)] = studentIDs[i]
		}
		byCode := make(map[string]primitive.ObjectID, len(courseIDs))
		for i, c := range ds.Courses {
			byCode[normalize.Code(c.Code)] = courseIDs[i]
		}
		byName := make(map[string]primitive.ObjectID, len(semesterIDs))
		for i, sem := range ds.Semesters {
			byName[normalize.Name(sem.Name)] = semesterIDs[i]
		}

		docs := make([]models.Enrollment, 0, len(ds.Enrollments))
		for _, e := range ds.Enrollments {
			docs = append(docs, models.Enrollment{
				StudentID:  byEmail[normalize.Email(e.Student)],
				CourseID:   byCode[normalize.Code(e.Course)],
				SemesterID: byName[normalize.Name(e.Semester)],
				Grade:      e.Grade,
			})
		}
		enrollmentIDs, err := enrollments.InsertMany(ctx, docs)
		if err != nil {
			return fmt.Errorf("insert enrollments: %w", err)
		}

		res.IDs = IDs{
			Students:    studentIDs,
			Courses:     courseIDs,
			Semesters:   semesterIDs,
			Enrollments: enrollmentIDs,
		}
		res.Inserted = Inserted{
			Students:    len(studentIDs),
			Courses:     len(courseIDs),
			Semesters:   len(semesterIDs),
			Enrollments: len(enrollmentIDs),
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info("seed committed",
		zap.Int("students", res.Inserted.Students),
		zap.Int("courses", res.Inserted.Courses),
		zap.Int("semesters", res.Inserted.Semesters),
		zap.Int("enrollments", res.Inserted.Enrollments))
	return res, nil
}
