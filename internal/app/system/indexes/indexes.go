// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Index names. Tests and operators refer to these.
const (
	StudentsEmailUnique     = "uniq_students_email"
	StudentsDeptGPA         = "idx_students_dept_gpa"
	StudentsGPA             = "idx_students_gpa"
	CoursesCodeUnique       = "uniq_courses_code"
	SemestersNameUnique     = "uniq_semesters_name"
	EnrollmentsTripleUnique = "uniq_enrollments_student_course_semester"
	EnrollmentsCourse       = "idx_enrollments_course"
	EnrollmentsSemester     = "idx_enrollments_semester_student"
)

/*
EnsureAll reconciles the desired indexes of every collection. Each ensure*
function is idempotent; running EnsureAll twice is a no-op the second time.
Errors are aggregated so every problem is reported in one pass.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureStudents(ctx, db); err != nil {
		problems = append(problems, models.StudentsCollection+": "+err.Error())
	}
	if err := ensureCourses(ctx, db); err != nil {
		problems = append(problems, models.CoursesCollection+": "+err.Error())
	}
	if err := ensureSemesters(ctx, db); err != nil {
		problems = append(problems, models.SemestersCollection+": "+err.Error())
	}
	if err := ensureEnrollments(ctx, db); err != nil {
		problems = append(problems, models.EnrollmentsCollection+": "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile one collection                                                   */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// Mongo/DocDB may answer IndexOptionsConflict when the same keys already
// exist under another name or with other options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// createErr turns a failed unique-index build into a message that says
// which data blocks it.
func createErr(coll *mongo.Collection, name string, unique bool, keys string, err error) string {
	if unique && wafflemongo.IsDup(err) {
		return fmt.Sprintf("%s(%s): cannot create unique index on {%s} (duplicates present)", coll.Name(), name, keys)
	}
	return fmt.Sprintf("%s(%s): %v", coll.Name(), name, err)
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, want []mongo.IndexModel) error {
	var errs []string

	for _, m := range want {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))

		// A missing collection lists as an error; treat that as "no indexes".
		existing, _ := listExisting(ctx, coll)

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == unique && ex.Name == name {
				log.Debug("reusing existing index", zap.Duration("took", time.Since(start)))
				continue
			}
			// Same keys, different name or uniqueness: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop %s failed: %v", coll.Name(), name, ex.Name, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				errs = append(errs, createErr(coll, name, unique, sig, err))
				continue
			}
			log.Info("index dropped and recreated",
				zap.String("previous", ex.Name),
				zap.Duration("took", time.Since(start)))
			continue
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err == nil {
			log.Info("index ensured",
				zap.String("created_name", created),
				zap.Duration("took", time.Since(start)))
			continue
		}
		if !isOptionsConflictErr(err) {
			log.Warn("index ensure failed", zap.Error(err))
			errs = append(errs, createErr(coll, name, unique, sig, err))
			continue
		}

		// Lost a race or hit a vendor quirk: look again and retry once.
		existing, lerr := listExisting(ctx, coll)
		ex, ok := existing[sig]
		if lerr != nil || !ok {
			errs = append(errs, createErr(coll, name, unique, sig, err))
			continue
		}
		if isUnique(ex.Unique) == unique {
			log.Info("reusing existing index (post-conflict)", zap.String("existing", ex.Name))
			continue
		}
		if _, dropErr := coll.Indexes().DropOne(ctx, ex.Name); dropErr != nil {
			log.Warn("failed to drop conflicting index", zap.String("existing", ex.Name), zap.Error(dropErr))
		}
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, createErr(coll, name, unique, sig, err))
			continue
		}
		log.Info("index dropped and recreated (post-conflict)", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureStudents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(models.StudentsCollection), []mongo.IndexModel{
		// Email is globally unique.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(StudentsEmailUnique),
		},
		// Department listing, best GPA first.
		{
			Keys:    bson.D{{Key: "department.department_name", Value: 1}, {Key: "GPA", Value: -1}},
			Options: options.Index().SetName(StudentsDeptGPA),
		},
		// GPA threshold scans and top-N ranking with a stable tiebreak.
		{
			Keys:    bson.D{{Key: "GPA", Value: -1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName(StudentsGPA),
		},
	})
}

func ensureCourses(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(models.CoursesCollection), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(CoursesCodeUnique),
		},
	})
}

func ensureSemesters(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(models.SemestersCollection), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(SemestersNameUnique),
		},
	})
}

func ensureEnrollments(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection(models.EnrollmentsCollection), []mongo.IndexModel{
		// One enrollment per (student, course, semester). The student_id
		// prefix also serves per-student lookups.
		{
			Keys: bson.D{
				{Key: "student_id", Value: 1},
				{Key: "course_id", Value: 1},
				{Key: "semester_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName(EnrollmentsTripleUnique),
		},
		// Course statistics group by course.
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}},
			Options: options.Index().SetName(EnrollmentsCourse),
		},
		// Semester GPA groups by (student, semester).
		{
			Keys:    bson.D{{Key: "semester_id", Value: 1}, {Key: "student_id", Value: 1}},
			Options: options.Index().SetName(EnrollmentsSemester),
		},
	})
}
