// Package coursequeries lists the courses students have taken.
package coursequeries

import (
	"context"

	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TakenCourse is a course on a student's record.
type TakenCourse struct {
	CourseName string `bson:"course_name" json:"course_name"`
	CourseCode string `bson:"course_code" json:"course_code"`
	Grade      string `bson:"grade,omitempty" json:"grade,omitempty"`
}

// StudentCourses is one student with every course they are enrolled in.
type StudentCourses struct {
	StudentID    primitive.ObjectID `bson:"student_id" json:"student_id"`
	StudentName  string             `bson:"student_name" json:"student_name"`
	StudentEmail string             `bson:"student_email" json:"student_email"`
	TotalCourses int64              `bson:"total_courses" json:"total_courses"`
	Courses      []TakenCourse      `bson:"courses" json:"courses"`
}

// AllStudentCourses groups enrollments per student, ordered by student name.
// Students without enrollments are not listed.
func AllStudentCourses(ctx context.Context, db *mongo.Database) ([]StudentCourses, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"student_id": bson.M{"$exists": true}}},
		{"$sort": bson.M{"_id": 1}},
		{"$lookup": bson.M{
			"from":         models.CoursesCollection,
			"localField":   "course_id",
			"foreignField": "_id",
			"as":           "course",
		}},
		{"$unwind": "$course"},
		{"$lookup": bson.M{
			"from":         models.StudentsCollection,
			"localField":   "student_id",
			"foreignField": "_id",
			"as":           "student",
		}},
		{"$unwind": "$student"},
		{"$group": bson.M{
			"_id":           "$student_id",
			"student_name":  bson.M{"$first": bson.M{"$concat": bson.A{"$student.fname", " ", "$student.lname"}}},
			"student_email": bson.M{"$first": "$student.email"},
			"courses": bson.M{"$push": bson.M{
				"course_name": "$course.course_name",
				"course_code": "$course.course_code",
				"grade":       "$grade",
			}},
			"total_courses": bson.M{"$sum": 1},
		}},
		{"$project": bson.M{
			"_id":           0,
			"student_id":    "$_id",
			"student_name":  1,
			"student_email": 1,
			"total_courses": 1,
			"courses":       1,
		}},
		{"$sort": bson.D{{Key: "student_name", Value: 1}, {Key: "student_id", Value: 1}}},
	}

	cur, err := db.Collection(models.EnrollmentsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []StudentCourses{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SemesterCourse is a course a student took in a given semester.
type SemesterCourse struct {
	CourseName string `bson:"course_name" json:"course_name"`
	CourseCode string `bson:"course_code" json:"course_code"`
	Semester   string `bson:"semester" json:"semester"`
	Grade      string `bson:"grade,omitempty" json:"grade,omitempty"`
}

// CoursesForStudent lists one student's courses ordered by semester, then
// course name. An unknown student yields an empty list.
func CoursesForStudent(ctx context.Context, db *mongo.Database, studentID primitive.ObjectID) ([]SemesterCourse, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"student_id": studentID}},
		{"$lookup": bson.M{
			"from":         models.CoursesCollection,
			"localField":   "course_id",
			"foreignField": "_id",
			"as":           "course",
		}},
		{"$unwind": "$course"},
		{"$lookup": bson.M{
			"from":         models.SemestersCollection,
			"localField":   "semester_id",
			"foreignField": "_id",
			"as":           "semester",
		}},
		{"$unwind": "$semester"},
		{"$project": bson.M{
			"_id":         0,
			"course_name": "$course.course_name",
			"course_code": "$course.course_code",
			"semester":    "$semester.name",
			"grade":       "$grade",
		}},
		{"$sort": bson.D{{Key: "semester", Value: 1}, {Key: "course_name", Value: 1}}},
	}

	cur, err := db.Collection(models.EnrollmentsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []SemesterCourse{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
