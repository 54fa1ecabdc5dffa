package jobs

import (
	"context"

	enrollmentstore "github.com/mziyad24/academicrecords/internal/app/store/enrollments"
	"github.com/mziyad24/academicrecords/internal/app/store/queries/coursequeries"
	studentstore "github.com/mziyad24/academicrecords/internal/app/store/students"
	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// QueryParams configures the ad-hoc query sequence.
type QueryParams struct {
	Department      string
	GPAThreshold    float64
	UpdateEmailFrom string
	UpdateEmailTo   string
	DeleteGrade     string
	SampleLevel     int
}

// DefaultQueryParams mirrors the configuration defaults.
func DefaultQueryParams() QueryParams {
	return QueryParams{
		Department:      "IS",
		GPAThreshold:    3.5,
		UpdateEmailFrom: "mziyad154@gmail.com",
		UpdateEmailTo:   "ziyad.updated@gmail.com",
		DeleteGrade:     "F",
		SampleLevel:     3,
	}
}

// StudentSummary is the flattened student shape used in query output.
type StudentSummary struct {
	StudentID  primitive.ObjectID `json:"student_id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Level      int                `json:"level"`
	GPA        *float64           `json:"GPA,omitempty"`
	Department string             `json:"department"`
	Faculty    string             `json:"faculty"`
}

// Summarize flattens students for output.
func Summarize(students []models.Student) []StudentSummary {
	out := make([]StudentSummary, 0, len(students))
	for _, s := range students {
		out = append(out, StudentSummary{
			StudentID:  s.ID,
			Name:       s.FullName(),
			Email:      s.Email,
			Level:      s.Level,
			GPA:        s.GPA,
			Department: s.Department.DepartmentName,
			Faculty:    s.Department.Faculty,
		})
	}
	return out
}

// EmailUpdate reports the email change step. Matched == 0 means no student
// had the old address.
type EmailUpdate struct {
	From string `json:"from"`
	To   string `json:"to"`
	studentstore.UpdateOutcome
}

// SampleCourses is the course list of the sampled student. Found is false
// when no student is at the requested level.
type SampleCourses struct {
	Level   int                            `json:"level"`
	Found   bool                           `json:"found"`
	Student *StudentSummary                `json:"student,omitempty"`
	Courses []coursequeries.SemesterCourse `json:"courses"`
}

// QueryReport is the output of the ad-hoc query workload.
type QueryReport struct {
	Department         string                         `json:"department"`
	DepartmentStudents []StudentSummary               `json:"department_students"`
	GPAThreshold       float64                        `json:"gpa_threshold"`
	HighGPAStudents    []StudentSummary               `json:"high_gpa_students"`
	EmailUpdate        EmailUpdate                    `json:"email_update"`
	DeleteGrade        string                         `json:"delete_grade"`
	DeletedEnrollments int64                          `json:"deleted_enrollments"`
	AllStudentCourses  []coursequeries.StudentCourses `json:"all_student_courses"`
	Sample             SampleCourses                  `json:"sample"`
}

// RunQueries runs the fixed query sequence: department listing, GPA
// threshold listing, email update, single enrollment delete by grade,
// courses per student and the sample student's courses.
func RunQueries(ctx context.Context, db *mongo.Database, p QueryParams, logger *zap.Logger) (QueryReport, error) {
	logger = nopIfNil(logger)
	students := studentstore.New(db)
	enrollments := enrollmentstore.New(db)

	out := QueryReport{
		Department:   p.Department,
		GPAThreshold: p.GPAThreshold,
		DeleteGrade:  p.DeleteGrade,
		EmailUpdate:  EmailUpdate{From: p.UpdateEmailFrom, To: p.UpdateEmailTo},
		Sample:       SampleCourses{Level: p.SampleLevel, Courses: []coursequeries.SemesterCourse{}},
	}

	err := runSteps(ctx, logger, []Step{
		{Name: "students by department", Run: func(ctx context.Context) error {
			list, err := students.ListByDepartment(ctx, p.Department)
			if err != nil {
				return err
			}
			out.DepartmentStudents = Summarize(list)
			return nil
		}},
		{Name: "students above gpa", Run: func(ctx context.Context) error {
			list, err := students.ListAboveGPA(ctx, p.GPAThreshold)
			if err != nil {
				return err
			}
			out.HighGPAStudents = Summarize(list)
			return nil
		}},
		{Name: "update email", Timeout: timeouts.Short, Run: func(ctx context.Context) error {
			res, err := students.UpdateEmail(ctx, p.UpdateEmailFrom, p.UpdateEmailTo)
			if err != nil {
				return err
			}
			out.EmailUpdate.UpdateOutcome = res
			if res.Matched == 0 {
				logger.Info("no student with email", zap.String("email", p.UpdateEmailFrom))
			}
			return nil
		}},
		{Name: "delete enrollment by grade", Timeout: timeouts.Short, Run: func(ctx context.Context) (err error) {
			out.DeletedEnrollments, err = enrollments.DeleteOneByGrade(ctx, p.DeleteGrade)
			return err
		}},
		{Name: "courses per student", Run: func(ctx context.Context) (err error) {
			out.AllStudentCourses, err = coursequeries.AllStudentCourses(ctx, db)
			return err
		}},
		{Name: "sample student courses", Run: func(ctx context.Context) error {
			st, found, err := students.FindSampleByLevel(ctx, p.SampleLevel)
			if err != nil {
				return err
			}
			if !found {
				logger.Info("no student at level", zap.Int("level", p.SampleLevel))
				return nil
			}
			summary := Summarize([]models.Student{st})[0]
			out.Sample.Found = true
			out.Sample.Student = &summary
			out.Sample.Courses, err = coursequeries.CoursesForStudent(ctx, db, st.ID)
			return err
		}},
	})
	if err != nil {
		return QueryReport{}, err
	}
	return out, nil
}
