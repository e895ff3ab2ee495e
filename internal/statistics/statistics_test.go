package statistics

import (
	"math"
	"testing"
)

func TestMean_Empty(t *testing.T) {
	if m := Mean(nil); m != 0.0 {
		t.Errorf("expected 0 for empty input, got %f", m)
	}
}

func TestMean_Values(t *testing.T) {
	m := Mean([]float64{70, 80, 90})
	if math.Abs(m-80.0) > 1e-9 {
		t.Errorf("expected 80, got %f", m)
	}
}

func TestPopStdDev_Identical(t *testing.T) {
	if sd := PopStdDev([]float64{85, 85, 85}); sd != 0.0 {
		t.Errorf("expected 0 stddev for identical values, got %f", sd)
	}
}

func TestPopStdDev_Known(t *testing.T) {
	// Population stddev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2.
	sd := PopStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(sd-2.0) > 1e-9 {
		t.Errorf("expected 2.0, got %f", sd)
	}
}

func TestMinMax(t *testing.T) {
	mn, mx := MinMax([]float64{63, 91, 70})
	if mn != 63 || mx != 91 {
		t.Errorf("expected (63, 91), got (%f, %f)", mn, mx)
	}

	mn, mx = MinMax(nil)
	if mn != 0 || mx != 0 {
		t.Errorf("expected (0, 0) for empty input, got (%f, %f)", mn, mx)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{150, 100},
		{-10, 0},
		{55.5, 55.5},
		{0, 0},
		{100, 100},
	}
	for _, tc := range cases {
		if got := Clamp(tc.in, 0, 100); got != tc.want {
			t.Errorf("Clamp(%f) = %f, want %f", tc.in, got, tc.want)
		}
	}
}
