package history

import (
	"time"

	"github.com/google/uuid"
)

// Record is a value that took effect at ValidFrom.
type Record[T any] struct {
	ValidFrom time.Time `json:"valid_from"`
	Value     T         `json:"value"`
}

// Timeline is an ascending sequence of records; each record holds until the
// next one, the last until ValidTo. A nil ValidTo means the window is open.
type Timeline[T any] struct {
	Records []Record[T] `json:"records"`
	ValidTo *time.Time  `json:"valid_to"`
}

// At returns the value in effect at t: the last record with ValidFrom <= t.
// It reports false before the first record and after ValidTo.
func (tl Timeline[T]) At(t time.Time) (T, bool) {
	var zero T
	if tl.ValidTo != nil && t.After(*tl.ValidTo) {
		return zero, false
	}
	found := false
	var value T
	for _, r := range tl.Records {
		if r.ValidFrom.After(t) {
			break
		}
		value = r.Value
		found = true
	}
	if !found {
		return zero, false
	}
	return value, true
}

// Len is the number of records.
func (tl Timeline[T]) Len() int { return len(tl.Records) }

// Map converts every record value with fn.
func Map[T, U any](tl Timeline[T], fn func(T) U) Timeline[U] {
	out := Timeline[U]{Records: make([]Record[U], len(tl.Records)), ValidTo: tl.ValidTo}
	for i, r := range tl.Records {
		out.Records[i] = Record[U]{ValidFrom: r.ValidFrom, Value: fn(r.Value)}
	}
	return out
}

// Ref identifies one history record of an object, the payload of a data
// history timeline.
type Ref struct {
	HistoryID uint64    `json:"history_id"`
	UUID      uuid.UUID `json:"uuid"`
}
