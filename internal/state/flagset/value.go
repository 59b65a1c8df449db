package flagset

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
)

// Value is a Set with its type parameter erased, for callers that pick the
// object kind at run time.
type Value struct {
	vocab *Vocabulary
	bits  uint64
}

// FromValue restores the typed set; v must come from T's vocabulary.
func FromValue[T Tag](v Value) (Set[T], error) {
	if v.vocab != vocabularyOf[T]() {
		return Set[T]{}, fmt.Errorf("flagset: value of %s is not a %s set", v.Kind(), vocabularyOf[T]().Kind())
	}
	return Set[T]{bits: v.bits}, nil
}

func (v Value) Vocabulary() *Vocabulary { return v.vocab }

func (v Value) Kind() string {
	if v.vocab == nil {
		return ""
	}
	return v.vocab.Kind()
}

// IsSet reports whether the flag called name is set.
func (v Value) IsSet(name string) bool {
	if v.vocab == nil {
		return false
	}
	i, ok := v.vocab.IndexOf(name)
	return ok && v.bits&(1<<i) != 0
}

func (v Value) Count() int { return bits.OnesCount64(v.bits) }

func (v Value) Equal(o Value) bool { return v.vocab == o.vocab && v.bits == o.bits }

func (v Value) Names() []string {
	if v.vocab == nil {
		return []string{}
	}
	return namesOf(v.vocab, v.bits)
}

func (v Value) String() string {
	return "{" + strings.Join(v.Names(), ", ") + "}"
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Names())
}
