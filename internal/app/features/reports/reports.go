// internal/app/features/reports/reports.go
package reports

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/mziyad24/academicrecords/internal/app/features/shared/respond"
	"github.com/mziyad24/academicrecords/internal/app/store/queries/reportqueries"
	"github.com/mziyad24/academicrecords/internal/app/system/normalize"
	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
)

// maxTopLimit caps ?limit= on /top-students.
const maxTopLimit = 100

// ServeTranscripts handles GET /reports/transcripts.
func (h *Handler) ServeTranscripts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "transcripts report")
	defer cancel()

	rows, err := reportqueries.Transcript(ctx, h.DB)
	if err != nil {
		respond.ServerError(w, r, h.Log, "transcripts report failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, reportqueries.GroupTranscripts(rows))
}

// ServeSemesterGPA handles GET /reports/semester-gpa.
func (h *Handler) ServeSemesterGPA(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "semester gpa report")
	defer cancel()

	rows, err := reportqueries.SemesterGPA(ctx, h.DB)
	if err != nil {
		respond.ServerError(w, r, h.Log, "semester gpa report failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}

// ServeCourseStats handles GET /reports/course-stats.
func (h *Handler) ServeCourseStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "course stats report")
	defer cancel()

	rows, err := reportqueries.CourseStats(ctx, h.DB)
	if err != nil {
		respond.ServerError(w, r, h.Log, "course stats report failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}

// ServeTopStudents handles GET /reports/top-students?limit=N.
// Without limit the configured default is used.
func (h *Handler) ServeTopStudents(w http.ResponseWriter, r *http.Request) {
	n := h.TopLimit
	if raw := normalize.QueryParam(query.Get(r, "limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > maxTopLimit {
			respond.BadRequest(w, "limit must be an integer between 1 and 100")
			return
		}
		n = v
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "top students report")
	defer cancel()

	rows, err := reportqueries.TopStudents(ctx, h.DB, n)
	if err != nil {
		respond.ServerError(w, r, h.Log, "top students report failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}
