package discount

import (
	"math"
	"testing"
)

func TestMidYearFactorBaseYear(t *testing.T) {
	// Testable Property 10: factor at year == base_year is (1+r)^-0.5.
	r := 0.10
	got := MidYearFactor(2030, 2030, r)
	want := math.Pow(1+r, -0.5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}
}

func TestMidYearFactorPreBaseYear(t *testing.T) {
	if f := MidYearFactor(2025, 2030, 0.10); f != 1.0 {
		t.Errorf("expected 1.0 before base year, got %f", f)
	}
}

func TestMidYearFactorZeroRate(t *testing.T) {
	if f := MidYearFactor(2035, 2030, 0.0); f != 1.0 {
		t.Errorf("expected 1.0 at zero discount rate, got %f", f)
	}
}

func TestMidYearFactorDecaysWithYear(t *testing.T) {
	early := MidYearFactor(2031, 2030, 0.10)
	late := MidYearFactor(2035, 2030, 0.10)
	if late >= early {
		t.Errorf("expected discount factor to shrink further out, early=%f late=%f", early, late)
	}
}
