package enums

import "fmt"

// ModifierKind classifies an order line modifier.
type ModifierKind string

const (
	ModifierKindExtra     ModifierKind = "extra"
	ModifierKindInclusion ModifierKind = "inclusion"
	ModifierKindRemoval   ModifierKind = "removal"
)

var validModifierKinds = []ModifierKind{
	ModifierKindExtra,
	ModifierKindInclusion,
	ModifierKindRemoval,
}

// String implements fmt.Stringer.
func (m ModifierKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ModifierKind.
func (m ModifierKind) IsValid() bool {
	for _, candidate := range validModifierKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseModifierKind converts raw input into a ModifierKind.
func ParseModifierKind(value string) (ModifierKind, error) {
	for _, candidate := range validModifierKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid modifier kind %q", value)
}
