package models

import "strings"

// Method is how a specimen was collected or observed.
type Method string

const (
	MethodLightTrap   Method = "Light trap"
	MethodNetSweeping Method = "Net sweeping"
	MethodVisual      Method = "Visual finding"
	MethodBaitTrap    Method = "Bait trap"
)

// Methods lists the selectable methods in form order.
var Methods = []Method{MethodLightTrap, MethodNetSweeping, MethodVisual, MethodBaitTrap}

// Valid reports whether m is one of Methods.
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMethod matches s case-insensitively against the known methods and
// falls back to def for anything else.
func ParseMethod(s string, def Method) Method {
	s = strings.TrimSpace(s)
	for _, known := range Methods {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return def
}
