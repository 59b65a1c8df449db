package flagset

// Action is what a visitor asks of the iteration after each flag.
type Action int

const (
	// CanContinue moves on to the next flag.
	CanContinue Action = iota
	// IsDone stops the iteration.
	IsDone
)

// Visitor observes flags of a set in declaration order.
type Visitor[T Tag] interface {
	Visit(f ID[T], s Set[T]) Action
}

// Mutator may modify the set while flags are iterated.
type Mutator[T Tag] interface {
	Mutate(f ID[T], s *Set[T]) Action
}

type VisitorFunc[T Tag] func(f ID[T], s Set[T]) Action

func (fn VisitorFunc[T]) Visit(f ID[T], s Set[T]) Action { return fn(f, s) }

type MutatorFunc[T Tag] func(f ID[T], s *Set[T]) Action

func (fn MutatorFunc[T]) Mutate(f ID[T], s *Set[T]) Action { return fn(f, s) }

// Visit calls v for each flag from index 0 until v returns IsDone. It returns
// IsDone if the iteration was stopped and CanContinue if it ran to the end.
func (s Set[T]) Visit(v Visitor[T]) Action {
	for i := 0; i < s.Size(); i++ {
		if v.Visit(ID[T]{bit: 1 << i}, s) == IsDone {
			return IsDone
		}
	}
	return CanContinue
}

// Mutate is Visit for mutators.
func (s *Set[T]) Mutate(m Mutator[T]) Action {
	for i := 0; i < s.Size(); i++ {
		if m.Mutate(ID[T]{bit: 1 << i}, s) == IsDone {
			return IsDone
		}
	}
	return CanContinue
}
