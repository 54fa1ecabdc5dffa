// internal/app/features/students/handler.go
package students

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"github.com/mziyad24/academicrecords/internal/app/features/shared/respond"
	"github.com/mziyad24/academicrecords/internal/app/jobs"
	"github.com/mziyad24/academicrecords/internal/app/store/queries/coursequeries"
	studentstore "github.com/mziyad24/academicrecords/internal/app/store/students"
	"github.com/mziyad24/academicrecords/internal/app/system/normalize"
	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves read-only student queries as JSON.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Students *studentstore.Store
}

// NewHandler constructs a students Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Students: studentstore.New(db),
	}
}

// ServeList handles GET /students?department=IS and GET /students?min_gpa=3.5.
// Exactly one filter must be given; results are ordered by GPA, highest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	dept := normalize.QueryParam(query.Get(r, "department"))
	rawGPA := normalize.QueryParam(query.Get(r, "min_gpa"))

	switch {
	case dept == "" && rawGPA == "":
		respond.BadRequest(w, "department or min_gpa is required")
		return
	case dept != "" && rawGPA != "":
		respond.BadRequest(w, "use either department or min_gpa, not both")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list students")
	defer cancel()

	if dept != "" {
		list, err := h.Students.ListByDepartment(ctx, dept)
		if err != nil {
			respond.ServerError(w, r, h.Log, "list students by department failed", err)
			return
		}
		respond.JSON(w, http.StatusOK, jobs.Summarize(list))
		return
	}

	threshold, err := strconv.ParseFloat(rawGPA, 64)
	if err != nil || threshold < 0 {
		respond.BadRequest(w, "min_gpa must be a non-negative number")
		return
	}
	list, err := h.Students.ListAboveGPA(ctx, threshold)
	if err != nil {
		respond.ServerError(w, r, h.Log, "list students above gpa failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, jobs.Summarize(list))
}

// ServeAllCourses handles GET /students/courses.
func (h *Handler) ServeAllCourses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "courses per student")
	defer cancel()

	rows, err := coursequeries.AllStudentCourses(ctx, h.DB)
	if err != nil {
		respond.ServerError(w, r, h.Log, "courses per student failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}

// studentCourses is the response of GET /students/{id}/courses.
type studentCourses struct {
	Student jobs.StudentSummary            `json:"student"`
	Courses []coursequeries.SemesterCourse `json:"courses"`
}

// ServeStudentCourses handles GET /students/{id}/courses.
func (h *Handler) ServeStudentCourses(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid student id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "student courses")
	defer cancel()

	st, err := h.Students.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.NotFound(w, "student not found")
		return
	}
	if err != nil {
		respond.ServerError(w, r, h.Log, "load student failed", err)
		return
	}

	courses, err := coursequeries.CoursesForStudent(ctx, h.DB, id)
	if err != nil {
		respond.ServerError(w, r, h.Log, "student courses failed", err)
		return
	}
	summary := jobs.Summarize([]models.Student{*st})[0]
	respond.JSON(w, http.StatusOK, studentCourses{Student: summary, Courses: courses})
}
