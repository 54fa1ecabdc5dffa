// Package reportqueries provides the read-only aggregation reports over
// enrollments: transcripts, per-semester GPA, course statistics and the
// top-ranked students.
//
// Every report is computed by the database. Grade letters are converted to
// points with grades.PointsExpr, so enrollments without a grade (or with a
// grade off the scale) never count as zero.
package reportqueries

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// fullName concatenates fname and lname under prefix (e.g. "$student").
func fullName(prefix string) bson.M {
	return bson.M{"$concat": bson.A{prefix + ".fname", " ", prefix + ".lname"}}
}

// lookupOne joins a single parent document and unwinds it. Enrollments
// whose parent is missing drop out.
func lookupOne(from, localField, as string) []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"as":           as,
		}},
		{"$unwind": "$" + as},
	}
}

// aggregate runs pipeline on coll and decodes every row into a non-nil slice.
func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline []bson.M) ([]T, error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	for cur.Next(ctx) {
		var row T
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
