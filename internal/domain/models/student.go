// internal/domain/models/student.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is embedded on Student; it is not a collection of its own.
type Department struct {
	Faculty        string `bson:"faculty" json:"faculty" yaml:"faculty"`
	DepartmentName string `bson:"department_name" json:"department_name" yaml:"department_name"`
}

// Student is a record in the students collection.
//
// NOTE:
//   - Email is unique (uniq_students_email) and stored lower-cased.
//   - GPA is the precomputed value kept on the record. Reports that rank by
//     GPA read this field; they never recompute it from enrollments.
type Student struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	FirstName  string             `bson:"fname" json:"fname" yaml:"fname"`
	LastName   string             `bson:"lname" json:"lname" yaml:"lname"`
	Email      string             `bson:"email" json:"email" yaml:"email"`
	Level      int                `bson:"level" json:"level" yaml:"level"`
	GPA        *float64           `bson:"GPA,omitempty" json:"GPA,omitempty" yaml:"gpa,omitempty"`
	Department Department         `bson:"department" json:"department" yaml:"department"`
}

// FullName joins first and last name the way reports display it.
func (s Student) FullName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
