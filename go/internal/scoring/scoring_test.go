package scoring

import (
	"errors"
	"testing"
)

func TestFinalTime(t *testing.T) {
	tests := []struct {
		name      string
		raw       int
		penalties int
		unit      int
		want      int
	}{
		{name: "no penalties", raw: 600, penalties: 0, unit: 30, want: 600},
		{name: "with penalties", raw: 600, penalties: 3, unit: 30, want: 690},
		{name: "zero unit", raw: 600, penalties: 5, unit: 0, want: 600},
		{name: "all zero", raw: 0, penalties: 0, unit: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FinalTime(tt.raw, tt.penalties, tt.unit)
			if err != nil {
				t.Fatalf("FinalTime(%d, %d, %d) unexpected error: %v", tt.raw, tt.penalties, tt.unit, err)
			}
			if got != tt.want {
				t.Errorf("FinalTime(%d, %d, %d) = %d, want %d", tt.raw, tt.penalties, tt.unit, got, tt.want)
			}
		})
	}
}

func TestFinalTimeNegativeInputs(t *testing.T) {
	cases := [][3]int{
		{-1, 0, 30},
		{600, -1, 30},
		{600, 1, -30},
	}
	for _, c := range cases {
		if _, err := FinalTime(c[0], c[1], c[2]); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("FinalTime(%d, %d, %d) error = %v, want ErrInvalidInput", c[0], c[1], c[2], err)
		}
	}
}

func TestFinalTimeMonotonicInPenalties(t *testing.T) {
	prev := -1
	for penalties := 0; penalties <= 50; penalties++ {
		got, err := FinalTime(754, penalties, 15)
		if err != nil {
			t.Fatalf("FinalTime unexpected error: %v", err)
		}
		if got < prev {
			t.Fatalf("FinalTime decreased at penalties=%d: %d < %d", penalties, got, prev)
		}
		prev = got
	}
}
