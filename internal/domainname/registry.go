// Package domainname holds the named domain-name syntax checkers and the
// registry the composition root selects enabled checkers from.
package domainname

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Checker rejects domain names that break one syntax rule.
type Checker interface {
	Check(name string) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(name string) error

func (f CheckerFunc) Check(name string) error { return f(name) }

var (
	ErrDuplicateChecker = errors.New("domain name checker already registered")
	ErrUnknownChecker   = errors.New("unknown domain name checker")
)

// InvalidNameError reports the checker that rejected a name.
type InvalidNameError struct {
	Name    string
	Checker string
	Reason  string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid domain name %q: %s (%s)", e.Name, e.Reason, e.Checker)
}

// Registry maps checker names to checkers. It is populated at startup and
// read-only afterwards.
type Registry struct {
	checkers map[string]Checker
}

func NewRegistry() *Registry {
	return &Registry{checkers: make(map[string]Checker)}
}

// Register adds a checker under name.
func (r *Registry) Register(name string, c Checker) error {
	if name == "" || c == nil {
		return fmt.Errorf("register domain name checker %q: name and checker are required", name)
	}
	if _, ok := r.checkers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}
	r.checkers[name] = c
	return nil
}

func (r *Registry) Get(name string) (Checker, bool) {
	c, ok := r.checkers[name]
	return c, ok
}

// Names lists the registered checker names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validator builds a validator that runs the named checkers in the given
// order. An empty list enables every registered checker.
func (r *Registry) Validator(names ...string) (*Validator, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	v := &Validator{}
	for _, name := range names {
		c, ok := r.checkers[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownChecker, name)
		}
		v.names = append(v.names, name)
		v.checkers = append(v.checkers, c)
	}
	return v, nil
}

// Validator applies an ordered list of checkers.
type Validator struct {
	names    []string
	checkers []Checker
}

// Names lists the enabled checkers. A nil Validator has none.
func (v *Validator) Names() []string {
	if v == nil {
		return nil
	}
	return slices.Clone(v.names)
}

// Validate returns an *InvalidNameError from the first checker that rejects
// name. A nil Validator accepts everything.
func (v *Validator) Validate(name string) error {
	if v == nil {
		return nil
	}
	name = strings.TrimSuffix(name, ".")
	for i, c := range v.checkers {
		if err := c.Check(name); err != nil {
			var invalid *InvalidNameError
			if errors.As(err, &invalid) {
				invalid.Checker = v.names[i]
				return invalid
			}
			return &InvalidNameError{Name: name, Checker: v.names[i], Reason: err.Error()}
		}
	}
	return nil
}
