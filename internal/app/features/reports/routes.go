// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter mounted under /reports.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/transcripts", h.ServeTranscripts)
	r.Get("/semester-gpa", h.ServeSemesterGPA)
	r.Get("/course-stats", h.ServeCourseStats)
	r.Get("/top-students", h.ServeTopStudents)
	return r
}
