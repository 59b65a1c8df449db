package state

import (
	"slices"
	"time"

	"fred/internal/history"
	"fred/internal/object"
	fs "fred/internal/state/flagset"
)

// Interval is one validity interval of a state flag that overlaps a query
// window, as read from object_state.
type Interval struct {
	Name      string
	ValidFrom time.Time
	// ValidTo is nil while the state is still in effect.
	ValidTo *time.Time
	// PresentsOnBegin is set when the interval had started by the window's
	// lower limit.
	PresentsOnBegin bool
}

// Window is a state-history query resolved by the store: both limits as
// timestamps plus every state interval overlapping them.
type Window struct {
	ObjectType object.Type
	CreatedAt  time.Time
	Lower      time.Time
	// Upper is nil for an unbounded window.
	Upper     *time.Time
	Intervals []Interval
}

// Start is where the timeline begins: the lower limit, but never before the
// object was created.
func (w Window) Start() time.Time {
	if w.CreatedAt.After(w.Lower) {
		return w.CreatedAt
	}
	return w.Lower
}

// Validate rejects windows whose limits are out of order, including windows
// that end before the object was created.
func (w Window) Validate() error {
	if w.Upper == nil {
		return nil
	}
	if w.Lower.After(*w.Upper) {
		return &object.InvalidHistoryIntervalError{Type: w.ObjectType, Reason: "lower limit is after upper limit"}
	}
	if w.CreatedAt.After(*w.Upper) {
		return &object.InvalidHistoryIntervalError{Type: w.ObjectType, Reason: "upper limit precedes object creation"}
	}
	return nil
}

type stateChange[T fs.Tag] struct {
	at    time.Time
	begin fs.Set[T]
	end   fs.Set[T]
}

// Reconstruct turns the intervals of w into a timeline of composite states.
//
// The first record sits at w.Start() and holds every flag whose interval had
// started by then. Later interval starts and ends are bucketed by exact
// timestamp; each bucket yields at most one record whose state is the
// previous one with the bucket's begins set and then its ends cleared.
// Buckets that leave the state unchanged yield nothing. Because ends are
// cleared last, a flag whose interval ends at t while its next interval
// begins at t is absent from t until that next interval ends. Changes at or
// after the upper limit are outside the timeline, which ends at the upper
// limit.
//
// Names outside T's vocabulary are skipped and returned.
func Reconstruct[T fs.Tag](w Window) (history.Timeline[fs.Set[T]], []string, error) {
	if err := w.Validate(); err != nil {
		return history.Timeline[fs.Set[T]]{}, nil, err
	}

	start := w.Start()
	before := func(t time.Time) bool { return w.Upper == nil || t.Before(*w.Upper) }

	var (
		initial fs.Set[T]
		changes = make(map[int64]*stateChange[T])
		unknown []string
	)
	bucket := func(t time.Time) *stateChange[T] {
		key := t.UnixNano()
		c, ok := changes[key]
		if !ok {
			c = &stateChange[T]{at: t}
			changes[key] = c
		}
		return c
	}

	for _, iv := range w.Intervals {
		if iv.Name == "" {
			continue
		}
		var flag fs.Set[T]
		if !flag.SetByName(iv.Name) {
			if !slices.Contains(unknown, iv.Name) {
				unknown = append(unknown, iv.Name)
			}
			continue
		}
		if iv.ValidTo != nil && !iv.ValidTo.After(start) {
			continue
		}

		switch {
		case iv.PresentsOnBegin || !iv.ValidFrom.After(start):
			initial.OrWith(flag)
		case before(iv.ValidFrom):
			bucket(iv.ValidFrom).begin.OrWith(flag)
		default:
			continue
		}

		if iv.ValidTo != nil && before(*iv.ValidTo) {
			bucket(*iv.ValidTo).end.OrWith(flag)
		}
	}

	ordered := make([]*stateChange[T], 0, len(changes))
	for _, c := range changes {
		ordered = append(ordered, c)
	}
	slices.SortFunc(ordered, func(a, b *stateChange[T]) int { return a.at.Compare(b.at) })

	records := make([]history.Record[fs.Set[T]], 0, len(ordered)+1)
	records = append(records, history.Record[fs.Set[T]]{ValidFrom: start, Value: initial})
	current := initial
	for _, c := range ordered {
		next := current.Or(c.begin).AndNot(c.end)
		if next.Equal(current) {
			continue
		}
		records = append(records, history.Record[fs.Set[T]]{ValidFrom: c.at, Value: next})
		current = next
	}

	return history.Timeline[fs.Set[T]]{Records: records, ValidTo: w.Upper}, unknown, nil
}
