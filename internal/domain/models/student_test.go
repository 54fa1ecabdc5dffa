package models

import "testing"

func TestStudent_FullName(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"Ziyad", "Mohammed", "Ziyad Mohammed"},
		{"Ziyad", "", "Ziyad"},
		{"", "Mohammed", "Mohammed"},
		{"", "", ""},
	}

	for _, tt := range tests {
		s := Student{FirstName: tt.first, LastName: tt.last}
		if got := s.FullName(); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}
