package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		name string
		s    string
		def  int
		want int
	}{
		{"empty falls back", "", 20, 20},
		{"plain number", "7", 0, 7},
		{"negative number", "-3", 0, -3},
		{"leading zeros", "007", 1, 7},
		{"garbage falls back", "seven", 4, 4},
		{"untrimmed input falls back", " 7", 9, 9},
		{"overflow falls back", "92233720368547758080", 2, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AtoiDefault(tc.s, tc.def); got != tc.want {
				t.Fatalf("AtoiDefault(%q, %d) = %d, want %d", tc.s, tc.def, got, tc.want)
			}
		})
	}
}
