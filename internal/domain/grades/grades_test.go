package grades

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestPoints(t *testing.T) {
	tests := []struct {
		letter string
		want   float64
		ok     bool
	}{
		{"A+", 4.3, true},
		{"A", 4.0, true},
		{"B+", 3.3, true},
		{"B", 3.0, true},
		{"C+", 2.3, true},
		{"C", 2.0, true},
		{"D+", 1.3, true},
		{"D", 1.0, true},
		{"F", 0.0, true},
		{"", 0, false},
		{"a", 0, false},
		{"E", 0, false},
		{"A-", 0, false},
		{" A", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.letter, func(t *testing.T) {
			got, ok := Points(tt.letter)
			if ok != tt.ok {
				t.Fatalf("Points(%q) ok = %v, want %v", tt.letter, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Points(%q) = %v, want %v", tt.letter, got, tt.want)
			}
		})
	}
}

func TestLetters_MatchesScale(t *testing.T) {
	letters := Letters()
	if len(letters) != 9 {
		t.Fatalf("expected 9 letters, got %d", len(letters))
	}
	prev := 5.0
	for _, l := range letters {
		p, ok := Points(l)
		if !ok {
			t.Fatalf("letter %q from Letters() is not mapped", l)
		}
		if p >= prev {
			t.Errorf("letters not ordered best first: %q=%v after %v", l, p, prev)
		}
		prev = p
	}
	if len(LettersArray()) != len(letters) {
		t.Errorf("LettersArray length %d, want %d", len(LettersArray()), len(letters))
	}
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name    string
		letters []string
		want    float64
		wantN   int
	}{
		{"A and B", []string{"A", "B"}, 3.5, 2},
		{"A A F", []string{"A", "A", "F"}, 2.67, 3},
		{"unmapped skipped", []string{"A", "", "Z"}, 4.0, 1},
		{"all F counts as zero", []string{"F", "F"}, 0, 2},
		{"none mapped", []string{"", "X"}, 0, 0},
		{"binary tie rounds down", []string{"A+", "A+", "A+", "A"}, 4.22, 4},
		{"empty", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n := Average(tt.letters)
			if got != tt.want || n != tt.wantN {
				t.Errorf("Average(%v) = (%v, %d), want (%v, %d)", tt.letters, got, n, tt.want, tt.wantN)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2.666666, 2.67},
		{3.5, 3.5},
		{3.444, 3.44},
		{4.225, 4.22},
		{0.125, 0.13},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// evalSwitch interprets the $switch produced by PointsExpr for a literal
// grade value, the same way the server would.
func evalSwitch(t *testing.T, expr bson.M, grade string) interface{} {
	t.Helper()
	sw, ok := expr["$switch"].(bson.M)
	if !ok {
		t.Fatalf("expected $switch, got %v", expr)
	}
	for _, b := range sw["branches"].(bson.A) {
		branch := b.(bson.M)
		eq := branch["case"].(bson.M)["$eq"].(bson.A)
		if eq[0] != "$grade" {
			t.Fatalf("unexpected field path %v", eq[0])
		}
		if eq[1] == grade {
			return branch["then"]
		}
	}
	return sw["default"]
}

func TestPointsExpr_AgreesWithPoints(t *testing.T) {
	expr := PointsExpr("$grade")

	for _, l := range append(Letters(), "", "Z", "a+") {
		got := evalSwitch(t, expr, l)
		want, ok := Points(l)
		if !ok {
			if got != nil {
				t.Errorf("grade %q: expression gives %v, want null", l, got)
			}
			continue
		}
		if got != want {
			t.Errorf("grade %q: expression gives %v, Points gives %v", l, got, want)
		}
	}
}
