// Package flagset implements fixed vocabularies of named boolean state flags
// and the bitmask sets built over them.
//
// A Vocabulary is an ordered array of flag descriptors for one object kind,
// built once at package initialisation. A Set[T] is a bitmask indexed by the
// position of each flag in the vocabulary of its Tag T, so sets of different
// object kinds are distinct types.
package flagset

import (
	"fmt"
	"strings"
)

// MaxFlags is the largest vocabulary a Set can hold.
const MaxFlags = 64

// Manipulation tells who toggles a flag.
type Manipulation int

const (
	// Manual flags are set by an external actor (registry staff, a registrar request).
	Manual Manipulation = iota + 1
	// Automatic flags are maintained by the registry itself.
	Automatic
)

func (m Manipulation) String() string {
	switch m {
	case Manual:
		return "manual"
	case Automatic:
		return "automatic"
	}
	return "unknown"
}

// Visibility tells whether registrars may observe a flag.
type Visibility int

const (
	External Visibility = iota + 1
	Internal
)

func (v Visibility) String() string {
	switch v {
	case External:
		return "external"
	case Internal:
		return "internal"
	}
	return "unknown"
}

// Descriptor describes one flag.
type Descriptor struct {
	Name         string
	Manipulation Manipulation
	Visibility   Visibility
}

// ManualFlag and AutomaticFlag are shorthands for vocabulary declarations.
func ManualFlag(name string, visibility Visibility) Descriptor {
	return Descriptor{Name: name, Manipulation: Manual, Visibility: visibility}
}

func AutomaticFlag(name string, visibility Visibility) Descriptor {
	return Descriptor{Name: name, Manipulation: Automatic, Visibility: visibility}
}

// Vocabulary is an immutable, ordered list of flag descriptors.
type Vocabulary struct {
	kind  string
	flags []Descriptor
	index map[string]int
}

// NewVocabulary builds a vocabulary for kind. It panics on an empty or
// duplicate flag name and on more than MaxFlags flags: vocabularies are
// declared in code, so these are programming errors.
func NewVocabulary(kind string, flags ...Descriptor) *Vocabulary {
	if len(flags) > MaxFlags {
		panic(fmt.Sprintf("flagset: vocabulary %q has %d flags, at most %d supported", kind, len(flags), MaxFlags))
	}
	v := &Vocabulary{
		kind:  kind,
		flags: make([]Descriptor, len(flags)),
		index: make(map[string]int, len(flags)),
	}
	for i, d := range flags {
		if d.Name == "" {
			panic(fmt.Sprintf("flagset: vocabulary %q has an unnamed flag at index %d", kind, i))
		}
		if _, dup := v.index[d.Name]; dup {
			panic(fmt.Sprintf("flagset: vocabulary %q declares flag %q twice", kind, d.Name))
		}
		v.flags[i] = d
		v.index[d.Name] = i
	}
	return v
}

// Kind names the object kind the vocabulary belongs to.
func (v *Vocabulary) Kind() string { return v.kind }

// Len is the number of flags.
func (v *Vocabulary) Len() int { return len(v.flags) }

// At returns the descriptor at index i.
func (v *Vocabulary) At(i int) Descriptor { return v.flags[i] }

// IndexOf returns the position of the flag called name.
func (v *Vocabulary) IndexOf(name string) (int, bool) {
	i, ok := v.index[name]
	return i, ok
}

// Names lists flag names in declaration order.
func (v *Vocabulary) Names() []string {
	names := make([]string, len(v.flags))
	for i, d := range v.flags {
		names[i] = d.Name
	}
	return names
}

// Descriptors returns a copy of the descriptors in declaration order.
func (v *Vocabulary) Descriptors() []Descriptor {
	out := make([]Descriptor, len(v.flags))
	copy(out, v.flags)
	return out
}

// Filter derives a vocabulary holding the flags keep accepts, in the same
// relative order.
func (v *Vocabulary) Filter(kind string, keep func(Descriptor) bool) *Vocabulary {
	kept := make([]Descriptor, 0, len(v.flags))
	for _, d := range v.flags {
		if keep(d) {
			kept = append(kept, d)
		}
	}
	return NewVocabulary(kind, kept...)
}

func (v *Vocabulary) String() string {
	return v.kind + "{" + strings.Join(v.Names(), ", ") + "}"
}

func (v *Vocabulary) full() uint64 {
	if len(v.flags) == MaxFlags {
		return ^uint64(0)
	}
	return uint64(1)<<len(v.flags) - 1
}
