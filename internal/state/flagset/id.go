package flagset

import (
	"fmt"
	"math/bits"
)

// Tag binds a Set to a vocabulary. Implementations are empty struct types,
// one per object kind, so the compiler keeps sets of different kinds apart.
type Tag interface {
	comparable
	Vocabulary() *Vocabulary
}

func vocabularyOf[T Tag]() *Vocabulary {
	var tag T
	return tag.Vocabulary()
}

// ID identifies one flag of T's vocabulary. The zero ID matches no flag.
type ID[T Tag] struct {
	bit uint64
}

// Lookup resolves a flag name at run time.
func Lookup[T Tag](name string) (ID[T], bool) {
	i, ok := vocabularyOf[T]().IndexOf(name)
	if !ok {
		return ID[T]{}, false
	}
	return ID[T]{bit: 1 << i}, true
}

// MustLookup resolves a flag name declared in code; it panics on an unknown
// name. Use it for package-level flag IDs so the index is fixed once.
func MustLookup[T Tag](name string) ID[T] {
	id, ok := Lookup[T](name)
	if !ok {
		panic(fmt.Sprintf("flagset: %s has no flag %q", vocabularyOf[T]().Kind(), name))
	}
	return id
}

// IDAt returns the flag at index i of T's vocabulary.
func IDAt[T Tag](i int) ID[T] {
	if i < 0 || i >= vocabularyOf[T]().Len() {
		panic(fmt.Sprintf("flagset: index %d out of range for %s", i, vocabularyOf[T]().Kind()))
	}
	return ID[T]{bit: 1 << i}
}

// Valid reports whether id names a flag.
func (id ID[T]) Valid() bool { return id.bit != 0 }

// Index is the flag's position in its vocabulary, -1 for the zero ID.
func (id ID[T]) Index() int {
	if id.bit == 0 {
		return -1
	}
	return bits.TrailingZeros64(id.bit)
}

// Descriptor returns the flag's descriptor.
func (id ID[T]) Descriptor() Descriptor {
	if id.bit == 0 {
		return Descriptor{}
	}
	return vocabularyOf[T]().At(id.Index())
}

func (id ID[T]) Name() string { return id.Descriptor().Name }

func (id ID[T]) String() string { return id.Name() }

func maskOf[T Tag](ids []ID[T]) uint64 {
	var m uint64
	for _, id := range ids {
		m |= id.bit
	}
	return m
}
