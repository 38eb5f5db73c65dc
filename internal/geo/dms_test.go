package geo

import (
	"errors"
	"math"
	"testing"

	"geo-marker-go/pkg/models"
)

func TestToDecimalDegrees(t *testing.T) {
	cases := []struct {
		name     string
		degrees  float64
		minutes  float64
		seconds  float64
		ref      string
		expected float64
	}{
		{"north", 48, 30, 0, "N", 48.5},
		{"east", 2, 15, 0, "E", 2.25},
		{"west", 2, 15, 0, "W", -2.25},
		{"south", 48, 30, 0, "S", -48.5},
		{"seconds only", 0, 0, 3600, "N", 1},
		{"zero", 0, 0, 0, "E", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDecimalDegrees(tc.degrees, tc.minutes, tc.seconds, tc.ref)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestToDecimalDegreesNegationSymmetry(t *testing.T) {
	triples := [][3]float64{
		{45, 12, 30.5},
		{0, 59, 59.9},
		{179, 0, 1},
	}

	for _, triple := range triples {
		north := ToDecimalDegrees(triple[0], triple[1], triple[2], "N")
		south := ToDecimalDegrees(triple[0], triple[1], triple[2], "S")
		east := ToDecimalDegrees(triple[0], triple[1], triple[2], "E")
		west := ToDecimalDegrees(triple[0], triple[1], triple[2], "W")

		if south != -north {
			t.Errorf("S must negate N: got %v and %v", south, north)
		}
		if west != -east {
			t.Errorf("W must negate E: got %v and %v", west, east)
		}
	}
}

func TestDMSAngleToDecimal(t *testing.T) {
	angle := models.DMSAngle{Degrees: 48.0, Minutes: 30.0, Seconds: 0.0}

	got, err := DMSAngleToDecimal(angle, "N")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 48.5 {
		t.Errorf("expected 48.5, got %v", got)
	}
}

func TestDMSAngleToDecimalMissingComponentsDefaultToZero(t *testing.T) {
	got, err := DMSAngleToDecimal(models.DMSAngle{Degrees: 2.0}, "E")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestDMSAngleToDecimalNumericString(t *testing.T) {
	angle := models.DMSAngle{Degrees: "2", Minutes: "15", Seconds: "0"}

	got, err := DMSAngleToDecimal(angle, "W")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -2.25 {
		t.Errorf("expected -2.25, got %v", got)
	}
}

func TestDMSAngleToDecimalInvalidComponent(t *testing.T) {
	angle := models.DMSAngle{Degrees: "not a number", Minutes: 0.0, Seconds: 0.0}

	_, err := DMSAngleToDecimal(angle, "N")
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestNumberOrNil(t *testing.T) {
	if NumberOrNil(nil) != nil {
		t.Error("nil input must give nil")
	}
	if NumberOrNil("garbage") != nil {
		t.Error("non-numeric input must give nil")
	}
	if got := NumberOrNil(1.5); got == nil || *got != 1.5 {
		t.Errorf("expected 1.5, got %v", got)
	}
}
