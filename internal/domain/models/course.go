// internal/domain/models/course.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a record in the courses collection. Course codes are unique.
type Course struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Name           string             `bson:"course_name" json:"course_name" yaml:"course_name"`
	Code           string             `bson:"course_code" json:"course_code" yaml:"course_code"`
	DepartmentName string             `bson:"department_name" json:"department_name" yaml:"department_name"`
}
