// Package object names the registrable object types and how callers locate
// one registry entry.
package object

import (
	"fmt"
	"strings"
)

// Type is the registry's stable name of a registrable object type. The value
// matches enum_object_type.name.
type Type string

const (
	Contact Type = "contact"
	Domain  Type = "domain"
	Nsset   Type = "nsset"
	Keyset  Type = "keyset"
)

// Types lists every registrable object type.
var Types = []Type{Contact, Domain, Nsset, Keyset}

// ParseType validates s as an object type name.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case Contact, Domain, Nsset, Keyset:
		return t, nil
	}
	return "", fmt.Errorf("unknown object type: %q", s)
}

func (t Type) String() string {
	return string(t)
}

// NormalizeHandle applies the registry's case rule for handles of type t:
// domain names are lower-cased, every other handle is upper-cased.
func (t Type) NormalizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	if t == Domain {
		return strings.ToLower(handle)
	}
	return strings.ToUpper(handle)
}
