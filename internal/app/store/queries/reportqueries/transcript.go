package reportqueries

import (
	"context"

	"github.com/mziyad24/academicrecords/internal/domain/grades"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TranscriptRow is one enrollment joined with its student, course and semester.
type TranscriptRow struct {
	StudentID  primitive.ObjectID `bson:"student_id" json:"student_id"`
	Student    string             `bson:"student" json:"student"`
	Email      string             `bson:"email" json:"email"`
	Course     string             `bson:"course" json:"course"`
	CourseCode string             `bson:"course_code" json:"course_code"`
	Semester   string             `bson:"semester" json:"semester"`
	Grade      string             `bson:"grade,omitempty" json:"grade,omitempty"`
}

// Transcript returns every enrollment as a flat row, ordered by student name,
// then semester, then course.
func Transcript(ctx context.Context, db *mongo.Database) ([]TranscriptRow, error) {
	pipeline := []bson.M{}
	pipeline = append(pipeline, lookupOne(models.StudentsCollection, "student_id", "student")...)
	pipeline = append(pipeline, lookupOne(models.CoursesCollection, "course_id", "course")...)
	pipeline = append(pipeline, lookupOne(models.SemestersCollection, "semester_id", "semester")...)
	pipeline = append(pipeline,
		bson.M{"$project": bson.M{
			"_id":         0,
			"student_id":  "$student._id",
			"student":     fullName("$student"),
			"email":       "$student.email",
			"course":      "$course.course_name",
			"course_code": "$course.course_code",
			"semester":    "$semester.name",
			"grade":       "$grade",
		}},
		bson.M{"$sort": bson.D{
			{Key: "student", Value: 1},
			{Key: "student_id", Value: 1},
			{Key: "semester", Value: 1},
			{Key: "course", Value: 1},
		}},
	)

	return aggregate[TranscriptRow](ctx, db.Collection(models.EnrollmentsCollection), pipeline)
}

// TranscriptCourse is one line of a grouped transcript.
type TranscriptCourse struct {
	Course     string `json:"course"`
	CourseCode string `json:"course_code"`
	Semester   string `json:"semester"`
	Grade      string `json:"grade,omitempty"`
}

// StudentTranscript is a student's full transcript with the GPA over the
// graded courses. GPA is nil when no course has a mapped grade.
type StudentTranscript struct {
	StudentID     primitive.ObjectID `json:"student_id"`
	Student       string             `json:"student"`
	Email         string             `json:"email"`
	GPA           *float64           `json:"gpa"`
	GradedCourses int                `json:"graded_courses"`
	Courses       []TranscriptCourse `json:"courses"`
}

// GroupTranscripts folds flat rows into one transcript per student, keeping
// the row order. GPA is the mean of the mapped grades.
func GroupTranscripts(rows []TranscriptRow) []StudentTranscript {
	out := []StudentTranscript{}
	index := make(map[primitive.ObjectID]int)
	letters := make(map[primitive.ObjectID][]string)

	for _, r := range rows {
		i, ok := index[r.StudentID]
		if !ok {
			i = len(out)
			index[r.StudentID] = i
			out = append(out, StudentTranscript{
				StudentID: r.StudentID,
				Student:   r.Student,
				Email:     r.Email,
				Courses:   []TranscriptCourse{},
			})
		}
		out[i].Courses = append(out[i].Courses, TranscriptCourse{
			Course:     r.Course,
			CourseCode: r.CourseCode,
			Semester:   r.Semester,
			Grade:      r.Grade,
		})
		letters[r.StudentID] = append(letters[r.StudentID], r.Grade)
	}

	for i := range out {
		gpa, n := grades.Average(letters[out[i].StudentID])
		out[i].GradedCourses = n
		if n > 0 {
			out[i].GPA = &gpa
		}
	}
	return out
}
