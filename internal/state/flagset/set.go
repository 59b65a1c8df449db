package flagset

import (
	"encoding/json"
	"math/bits"
	"strings"
)

// Set is a value-type collection of T's flags. The zero Set has no flag set.
//
// Queries use value receivers and mutators pointer receivers; mutators return
// the receiver so calls chain.
type Set[T Tag] struct {
	bits uint64
}

// New returns a set with exactly ids set.
func New[T Tag](ids ...ID[T]) Set[T] {
	return Set[T]{bits: maskOf(ids)}
}

func (s Set[T]) Vocabulary() *Vocabulary { return vocabularyOf[T]() }

// IsSet reports whether f is set.
func (s Set[T]) IsSet(f ID[T]) bool {
	return f.bit != 0 && s.bits&f.bit != 0
}

func (s *Set[T]) Set(ids ...ID[T]) *Set[T] {
	s.bits |= maskOf(ids)
	return s
}

// SetTo sets ids when value is true and resets them otherwise.
func (s *Set[T]) SetTo(value bool, ids ...ID[T]) *Set[T] {
	if value {
		return s.Set(ids...)
	}
	return s.Reset(ids...)
}

func (s *Set[T]) Reset(ids ...ID[T]) *Set[T] {
	s.bits &^= maskOf(ids)
	return s
}

func (s *Set[T]) Flip(ids ...ID[T]) *Set[T] {
	s.bits ^= maskOf(ids)
	return s
}

func (s *Set[T]) SetAll() *Set[T] {
	s.bits = s.Vocabulary().full()
	return s
}

func (s *Set[T]) ResetAll() *Set[T] {
	s.bits = 0
	return s
}

func (s *Set[T]) FlipAll() *Set[T] {
	s.bits ^= s.Vocabulary().full()
	return s
}

// AreSetAllOf reports whether every one of ids is set.
func (s Set[T]) AreSetAllOf(ids ...ID[T]) bool {
	m := maskOf(ids)
	return s.bits&m == m
}

// AreSetAnyOf reports whether at least one of ids is set.
func (s Set[T]) AreSetAnyOf(ids ...ID[T]) bool {
	return s.bits&maskOf(ids) != 0
}

// AreUnsetAllOf reports whether none of ids is set.
func (s Set[T]) AreUnsetAllOf(ids ...ID[T]) bool {
	return s.bits&maskOf(ids) == 0
}

// AreUnsetAnyOf reports whether at least one of ids is not set.
func (s Set[T]) AreUnsetAnyOf(ids ...ID[T]) bool {
	m := maskOf(ids)
	return s.bits&m != m
}

func (s Set[T]) All() bool  { return s.bits == s.Vocabulary().full() }
func (s Set[T]) Any() bool  { return s.bits != 0 }
func (s Set[T]) None() bool { return s.bits == 0 }
func (s Set[T]) Count() int { return bits.OnesCount64(s.bits) }
func (s Set[T]) Size() int  { return s.Vocabulary().Len() }

func (s Set[T]) Not() Set[T] {
	return Set[T]{bits: ^s.bits & s.Vocabulary().full()}
}

func (s Set[T]) And(o Set[T]) Set[T]    { return Set[T]{bits: s.bits & o.bits} }
func (s Set[T]) Or(o Set[T]) Set[T]     { return Set[T]{bits: s.bits | o.bits} }
func (s Set[T]) Xor(o Set[T]) Set[T]    { return Set[T]{bits: s.bits ^ o.bits} }
func (s Set[T]) AndNot(o Set[T]) Set[T] { return Set[T]{bits: s.bits &^ o.bits} }
func (s Set[T]) Equal(o Set[T]) bool    { return s.bits == o.bits }

func (s *Set[T]) AndWith(o Set[T]) *Set[T] {
	s.bits &= o.bits
	return s
}

func (s *Set[T]) OrWith(o Set[T]) *Set[T] {
	s.bits |= o.bits
	return s
}

func (s *Set[T]) XorWith(o Set[T]) *Set[T] {
	s.bits ^= o.bits
	return s
}

// Names lists the set flags in declaration order.
func (s Set[T]) Names() []string {
	return namesOf(s.Vocabulary(), s.bits)
}

func (s Set[T]) String() string {
	return "{" + strings.Join(s.Names(), ", ") + "}"
}

// MarshalJSON encodes the set as the list of set flag names.
func (s Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON accepts a list of flag names; unknown names are rejected.
func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	folded, unknown := Fold[T](names)
	if len(unknown) > 0 {
		return &UnknownFlagsError{Kind: s.Vocabulary().Kind(), Names: unknown}
	}
	*s = folded
	return nil
}

// Value erases the set's type parameter.
func (s Set[T]) Value() Value {
	return Value{vocab: s.Vocabulary(), bits: s.bits}
}

func namesOf(v *Vocabulary, b uint64) []string {
	names := make([]string, 0, bits.OnesCount64(b))
	for i := 0; i < v.Len(); i++ {
		if b&(1<<i) != 0 {
			names = append(names, v.At(i).Name)
		}
	}
	return names
}
