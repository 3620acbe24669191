package resource

import (
	"fmt"
	"strings"
)

// UpdateMode decides which fields of a partial payload count as provided.
type UpdateMode int

const (
	// UpdateTruthy ignores zero values (0, "", false). It is the default
	// because existing dashboard clients rely on it.
	UpdateTruthy UpdateMode = iota
	// UpdatePresent applies every field present in the payload, zero or not.
	UpdatePresent
)

func ParseUpdateMode(s string) (UpdateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truthy":
		return UpdateTruthy, nil
	case "present":
		return UpdatePresent, nil
	default:
		return UpdateTruthy, fmt.Errorf("unknown update mode %q (want truthy or present)", s)
	}
}

func (m UpdateMode) String() string {
	if m == UpdatePresent {
		return "present"
	}
	return "truthy"
}

// Provided reports whether v counts as supplied under mode.
func Provided[V comparable](v *V, mode UpdateMode) bool {
	if v == nil {
		return false
	}
	if mode == UpdatePresent {
		return true
	}
	var zero V
	return *v != zero
}

// Assign copies *v into *dst when v counts as supplied.
func Assign[V comparable](dst *V, v *V, mode UpdateMode) {
	if Provided(v, mode) {
		*dst = *v
	}
}
