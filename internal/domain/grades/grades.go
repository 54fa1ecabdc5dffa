// internal/domain/grades/grades.go

// Package grades holds the letter-grade scale used for GPA computation.
//
// The scale table below is the only place grade points are defined. The
// host-side helpers (Points, Average) and the aggregation expression
// (PointsExpr) are both derived from it so the two evaluations agree.
package grades

import (
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

// Canonical letter grades as stored in enrollments.grade.
const (
	APlus = "A+"
	A     = "A"
	BPlus = "B+"
	B     = "B"
	CPlus = "C+"
	C     = "C"
	DPlus = "D+"
	D     = "D"
	F     = "F"
)

type step struct {
	letter string
	points float64
}

// scale is ordered from best to worst.
var scale = []step{
	{APlus, 4.3},
	{A, 4.0},
	{BPlus, 3.3},
	{B, 3.0},
	{CPlus, 2.3},
	{C, 2.0},
	{DPlus, 1.3},
	{D, 1.0},
	{F, 0.0},
}

var byLetter = func() map[string]float64 {
	m := make(map[string]float64, len(scale))
	for _, s := range scale {
		m[s.letter] = s.points
	}
	return m
}()

// Letters returns the closed set of valid letter grades, best first.
func Letters() []string {
	out := make([]string, len(scale))
	for i, s := range scale {
		out[i] = s.letter
	}
	return out
}

// Points maps a letter grade to its point value. The second result is false
// for anything outside the closed set (including ""), which callers must
// treat as "excluded", never as zero.
func Points(letter string) (float64, bool) {
	p, ok := byLetter[letter]
	return p, ok
}

// Valid reports whether letter belongs to the closed set.
func Valid(letter string) bool {
	_, ok := byLetter[letter]
	return ok
}

// Round2 rounds v*100 to the nearest integer, half away from zero, and
// scales back. The product is a binary float, so a decimal tie such as 4.225
// (stored just below) rounds down to 4.22.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Average returns the mean point value of the mapped grades in letters,
// rounded to two decimals, and how many grades contributed. Unmapped or
// empty grades are skipped. With no mapped grades it returns (0, 0).
func Average(letters []string) (float64, int) {
	var sum float64
	n := 0
	for _, l := range letters {
		p, ok := Points(l)
		if !ok {
			continue
		}
		sum += p
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return Round2(sum / float64(n)), n
}

// PointsExpr builds the aggregation expression that converts the grade held
// in fieldPath (e.g. "$grade") into points. Unmapped grades evaluate to null
// so $avg ignores them.
func PointsExpr(fieldPath string) bson.M {
	branches := make(bson.A, 0, len(scale))
	for _, s := range scale {
		branches = append(branches, bson.M{
			"case": bson.M{"$eq": bson.A{fieldPath, s.letter}},
			"then": s.points,
		})
	}
	return bson.M{"$switch": bson.M{
		"branches": branches,
		"default":  nil,
	}}
}

// LettersArray returns Letters as a bson.A, ready for $in filters and
// JSON-Schema enums.
func LettersArray() bson.A {
	out := make(bson.A, 0, len(scale))
	for _, s := range scale {
		out = append(out, s.letter)
	}
	return out
}
