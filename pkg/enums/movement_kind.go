package enums

import "fmt"

// MovementKind labels why an on-hand quantity changed.
type MovementKind string

const (
	MovementKindOrderDecrement MovementKind = "pedido"
	MovementKindManualAdjust   MovementKind = "ajuste_manual"
)

var validMovementKinds = []MovementKind{
	MovementKindOrderDecrement,
	MovementKindManualAdjust,
}

// String returns the literal string for the kind.
func (k MovementKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k MovementKind) IsValid() bool {
	for _, candidate := range validMovementKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMovementKind converts raw input into a MovementKind.
func ParseMovementKind(value string) (MovementKind, error) {
	for _, candidate := range validMovementKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement kind %q", value)
}
