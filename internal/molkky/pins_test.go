package molkky

import (
	"reflect"
	"testing"
)

func TestPinSetPoints(t *testing.T) {
	tests := []struct {
		name string
		pins []int
		want int
	}{
		{name: "empty", pins: nil, want: 0},
		{name: "single one", pins: []int{1}, want: 1},
		{name: "single twelve", pins: []int{12}, want: 12},
		{name: "two pins", pins: []int{3, 9}, want: 2},
		{name: "two high pins", pins: []int{11, 12}, want: 2},
		{name: "five pins", pins: []int{1, 4, 7, 10, 12}, want: 5},
		{name: "all pins", pins: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s PinSet
			for _, p := range tt.pins {
				s = s.With(p)
			}
			if got := s.Points(); got != tt.want {
				t.Errorf("Points(%v) = %d, want %d", tt.pins, got, tt.want)
			}
		})
	}
}

func TestPinSetSinglePinScoresFaceValue(t *testing.T) {
	for pin := MinPin; pin <= MaxPin; pin++ {
		s := PinSet(0).With(pin)
		if got := s.Points(); got != pin {
			t.Errorf("single pin %d scored %d", pin, got)
		}
	}
}

func TestPinSetToggleIsIdempotentPair(t *testing.T) {
	s := PinSet(0).With(4).With(9)
	for pin := MinPin; pin <= MaxPin; pin++ {
		if got := s.Toggle(pin).Toggle(pin); got != s {
			t.Errorf("toggling pin %d twice changed set: %v -> %v", pin, s.Pins(), got.Pins())
		}
	}
}

func TestPinSetIgnoresInvalidPins(t *testing.T) {
	var s PinSet
	for _, pin := range []int{-1, 0, 13, 16} {
		s = s.With(pin)
		if s.Has(pin) {
			t.Errorf("Has(%d) = true for invalid pin", pin)
		}
	}
	if !s.Empty() {
		t.Errorf("set should still be empty, got %v", s.Pins())
	}
}

func TestPinSetPinsSorted(t *testing.T) {
	s := PinSet(0).With(12).With(3).With(7).With(3)
	want := []int{3, 7, 12}
	if got := s.Pins(); !reflect.DeepEqual(got, want) {
		t.Errorf("Pins() = %v, want %v", got, want)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestPinRowsCoverEveryPinOnce(t *testing.T) {
	seen := make(map[int]bool)
	for _, row := range PinRows {
		for _, pin := range row {
			if seen[pin] {
				t.Errorf("pin %d appears twice", pin)
			}
			seen[pin] = true
		}
	}
	for pin := MinPin; pin <= MaxPin; pin++ {
		if !seen[pin] {
			t.Errorf("pin %d missing from layout", pin)
		}
	}
}
