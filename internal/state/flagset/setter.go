package flagset

import (
	"fmt"
	"strings"
)

// Setter is a mutator that sets the flag called Name and stops. A name that
// is not in the vocabulary leaves the set unchanged.
type Setter[T Tag] struct {
	name    string
	matched bool
}

func NewSetter[T Tag](name string) *Setter[T] {
	return &Setter[T]{name: name}
}

func (st *Setter[T]) Mutate(f ID[T], s *Set[T]) Action {
	if f.Name() != st.name {
		return CanContinue
	}
	s.Set(f)
	st.matched = true
	return IsDone
}

// Matched reports whether the name was found in the vocabulary.
func (st *Setter[T]) Matched() bool { return st.matched }

// SetByName sets the flag called name and reports whether it exists.
func (s *Set[T]) SetByName(name string) bool {
	st := NewSetter[T](name)
	s.Mutate(st)
	return st.Matched()
}

// Fold builds a set from flag names as read from the store. Empty names
// (no state on a left join) are skipped; names outside the vocabulary are
// returned once each, in first-seen order.
func Fold[T Tag](names []string) (Set[T], []string) {
	var (
		s       Set[T]
		unknown []string
		seen    map[string]struct{}
	)
	for _, name := range names {
		if name == "" || s.SetByName(name) {
			continue
		}
		if seen == nil {
			seen = make(map[string]struct{})
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		unknown = append(unknown, name)
	}
	return s, unknown
}

// UnknownFlagsError lists flag names a vocabulary does not declare.
type UnknownFlagsError struct {
	Kind  string
	Names []string
}

func (e *UnknownFlagsError) Error() string {
	return fmt.Sprintf("unknown %s flags: %s", e.Kind, strings.Join(e.Names, ", "))
}
