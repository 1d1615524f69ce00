package analysis

import (
	"math"
	"testing"
)

func TestMeasure(t *testing.T) {
	x := []float64{0.5, -1, 0.25, 0}
	s := Measure(x, 4)
	if s.Peak != 1 || s.Clipped != 1 || s.DurationSec != 1 {
		t.Fatalf("unexpected stats: %+v", s)
	}
	if s.CrestDB <= 0 {
		t.Fatalf("expected positive crest factor, got %f", s.CrestDB)
	}
	if silent := Measure(make([]float64, 8), 4); silent.CrestDB != 0 || silent.Peak != 0 {
		t.Fatalf("unexpected silent stats: %+v", silent)
	}
}

func TestSectionRMSFollowsLevel(t *testing.T) {
	const sr = 100
	x := make([]float64, 0, 4*sr)
	for _, level := range []float64{0.1, 0.1, 0.5, 1.0} {
		for i := 0; i < sr; i++ {
			x = append(x, level)
		}
	}
	got := SectionRMS(x, sr, 1.0, []int{2, 1, 1, 3})
	want := []float64{0.1, 0.5, 1.0, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("section %d: got %f want %f", i, got[i], want[i])
		}
	}
}
