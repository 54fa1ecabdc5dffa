// internal/domain/models/enrollment.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment links a student to a course in a given semester.
//
// NOTE:
//   - (student_id, course_id, semester_id) is unique
//     (uniq_enrollments_student_course_semester).
//   - Grade is one of grades.Letters() or empty (not graded yet). An empty
//     grade is not stored.
type Enrollment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID  primitive.ObjectID `bson:"student_id" json:"student_id"`
	CourseID   primitive.ObjectID `bson:"course_id" json:"course_id"`
	SemesterID primitive.ObjectID `bson:"semester_id" json:"semester_id"`
	Grade      string             `bson:"grade,omitempty" json:"grade,omitempty"`
}
