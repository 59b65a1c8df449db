// Package history describes query windows over an object's history and the
// timelines reconstructed for them.
package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Precision is the timestamp granularity of the store. Timestamps handed to
// queries are truncated to it.
const Precision = time.Microsecond

// LimitKind tags the variant held by a Limit.
type LimitKind int

const (
	// Unbounded: the object's creation for a lower limit, infinity for an upper one.
	Unbounded LimitKind = iota
	// Timestamp: a literal point in time.
	Timestamp
	// HistoryIDMarker: the valid_from of the history record with this id.
	HistoryIDMarker
	// HistoryUUIDMarker: the valid_from of the history record with this UUID.
	HistoryUUIDMarker
)

func (k LimitKind) String() string {
	switch k {
	case Unbounded:
		return "no-limit"
	case Timestamp:
		return "timestamp"
	case HistoryIDMarker:
		return "history-id"
	case HistoryUUIDMarker:
		return "history-uuid"
	}
	return "unknown"
}

// Limit is one end of an Interval. The zero Limit is NoLimit.
type Limit struct {
	kind      LimitKind
	timestamp time.Time
	historyID uint64
	uuid      uuid.UUID
}

func NoLimit() Limit { return Limit{kind: Unbounded} }

// At limits the window at t, truncated to the store precision.
func At(t time.Time) Limit {
	return Limit{kind: Timestamp, timestamp: t.UTC().Truncate(Precision)}
}

// HistoryID anchors the limit at a history record id.
func HistoryID(id uint64) Limit { return Limit{kind: HistoryIDMarker, historyID: id} }

// HistoryUUID anchors the limit at a history record UUID.
func HistoryUUID(id uuid.UUID) Limit { return Limit{kind: HistoryUUIDMarker, uuid: id} }

func (l Limit) Kind() LimitKind        { return l.kind }
func (l Limit) Time() time.Time        { return l.timestamp }
func (l Limit) HistoryID() uint64      { return l.historyID }
func (l Limit) HistoryUUID() uuid.UUID { return l.uuid }

func (l Limit) String() string {
	switch l.kind {
	case Timestamp:
		return l.timestamp.Format(time.RFC3339Nano)
	case HistoryIDMarker:
		return historyIDPrefix + strconv.FormatUint(l.historyID, 10)
	case HistoryUUIDMarker:
		return historyUUIDPrefix + l.uuid.String()
	}
	return ""
}

const (
	historyIDPrefix   = "history:"
	historyUUIDPrefix = "history-uuid:"
)

// ParseLimit reads the textual form produced by Limit.String: an empty string
// for no limit, an RFC 3339 timestamp, "history:<id>" or "history-uuid:<uuid>".
func ParseLimit(s string) (Limit, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return NoLimit(), nil
	case strings.HasPrefix(s, historyUUIDPrefix):
		id, err := uuid.Parse(strings.TrimPrefix(s, historyUUIDPrefix))
		if err != nil {
			return Limit{}, fmt.Errorf("invalid history uuid limit %q: %w", s, err)
		}
		return HistoryUUID(id), nil
	case strings.HasPrefix(s, historyIDPrefix):
		id, err := strconv.ParseUint(strings.TrimPrefix(s, historyIDPrefix), 10, 64)
		if err != nil {
			return Limit{}, fmt.Errorf("invalid history id limit %q: %w", s, err)
		}
		return HistoryID(id), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Limit{}, fmt.Errorf("invalid timestamp limit %q: %w", s, err)
	}
	return At(t), nil
}

// Interval is a query window over an object's history. Both ends are
// inclusive when resolved.
type Interval struct {
	Lower Limit
	Upper Limit
}

// Whole covers the object's entire history.
func Whole() Interval { return Interval{Lower: NoLimit(), Upper: NoLimit()} }

// Between is the window [lower, upper].
func Between(lower, upper Limit) Interval { return Interval{Lower: lower, Upper: upper} }

// Validate catches what can be rejected without resolving markers: two
// literal timestamps in the wrong order.
func (iv Interval) Validate() error {
	if iv.Lower.kind == Timestamp && iv.Upper.kind == Timestamp && iv.Lower.timestamp.After(iv.Upper.timestamp) {
		return fmt.Errorf("lower limit %s is after upper limit %s", iv.Lower, iv.Upper)
	}
	return nil
}

func (iv Interval) String() string {
	return "[" + iv.Lower.String() + ", " + iv.Upper.String() + "]"
}
