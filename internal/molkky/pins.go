package molkky

import "math/bits"

// PinSet is a set of pin values in [MinPin, MaxPin], stored as a bitmask.
// The zero value is the empty set.
type PinSet uint16

// ValidPin reports whether pin is a real pin number.
func ValidPin(pin int) bool {
	return pin >= MinPin && pin <= MaxPin
}

// Has reports whether pin is in the set.
func (s PinSet) Has(pin int) bool {
	if !ValidPin(pin) {
		return false
	}
	return s&(1<<uint(pin)) != 0
}

// With returns the set with pin added.
func (s PinSet) With(pin int) PinSet {
	if !ValidPin(pin) {
		return s
	}
	return s | 1<<uint(pin)
}

// Without returns the set with pin removed.
func (s PinSet) Without(pin int) PinSet {
	if !ValidPin(pin) {
		return s
	}
	return s &^ (1 << uint(pin))
}

// Toggle returns the set with pin's membership flipped.
func (s PinSet) Toggle(pin int) PinSet {
	if s.Has(pin) {
		return s.Without(pin)
	}
	return s.With(pin)
}

// Len returns the number of pins in the set.
func (s PinSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// Empty reports whether no pin is selected.
func (s PinSet) Empty() bool {
	return s == 0
}

// Pins returns the selected pin values in ascending order.
func (s PinSet) Pins() []int {
	pins := make([]int, 0, s.Len())
	for pin := MinPin; pin <= MaxPin; pin++ {
		if s.Has(pin) {
			pins = append(pins, pin)
		}
	}
	return pins
}

// Points returns the score for knocking down exactly this set of pins.
// One fallen pin scores its number; several score one point each.
func (s PinSet) Points() int {
	switch n := s.Len(); n {
	case 0:
		return 0
	case 1:
		return s.Pins()[0]
	default:
		return n
	}
}

// PinRows lays the pins out as a diamond for the pin grid.
var PinRows = [][]int{
	{1, 2},
	{3, 4, 5},
	{6, 7, 8, 9},
	{10, 11, 12},
}
