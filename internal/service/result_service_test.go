package service

import "testing"

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		score int
		total int
		want  float64
	}{
		{"forty percent", 2, 5, 40.0},
		{"full marks", 5, 5, 100.0},
		{"zero score", 0, 5, 0.0},
		{"zero total defined as zero", 3, 0, 0.0},
		{"thirds", 1, 3, 100.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentage(tt.score, tt.total); got != tt.want {
				t.Errorf("percentage(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
			}
		})
	}
}
