// internal/app/features/students/routes.go
package students

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter mounted under /students.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/courses", h.ServeAllCourses)
	r.Get("/{id}/courses", h.ServeStudentCourses)
	return r
}
