// internal/domain/models/collections.go
package models

// Collection names.
const (
	StudentsCollection    = "students"
	CoursesCollection     = "courses"
	SemestersCollection   = "semesters"
	EnrollmentsCollection = "enrollments"
)
