// internal/domain/models/semester.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Semester is a record in the semesters collection (e.g. "Fall 2025").
type Semester struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id" yaml:"-"`
	Name string             `bson:"name" json:"name" yaml:"name"`
}
