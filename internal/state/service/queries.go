package service

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"fred/internal/history"
	"fred/internal/object"
	"fred/internal/state"
	fs "fred/internal/state/flagset"
)

// GetState returns the flags currently set on the object of T's type
// matched by loc.
func GetState[T fs.Tag](ctx context.Context, s *Service, loc object.Locator) (fs.Set[T], error) {
	return GetStateLocked[T](ctx, s, loc, state.LockNone)
}

// GetStateLocked is GetState taking a row lock on the registry entry. The
// lock is held until the context transaction ends.
func GetStateLocked[T fs.Tag](ctx context.Context, s *Service, loc object.Locator, lock state.LockMode) (fs.Set[T], error) {
	return activeSet[T](ctx, s, "state", loc, state.QueryOptions{Lock: lock})
}

// GetStatus returns the externally visible flags of the object matched by
// loc. T is a status tag.
func GetStatus[T fs.Tag](ctx context.Context, s *Service, loc object.Locator) (fs.Set[T], error) {
	return activeSet[T](ctx, s, "status", loc, state.QueryOptions{ExternalOnly: true})
}

func activeSet[T fs.Tag](ctx context.Context, s *Service, op string, loc object.Locator, opts state.QueryOptions) (fs.Set[T], error) {
	typ := state.ObjectTypeOf[T]()
	ctx, c := s.begin(ctx, op, typ,
		attribute.String("fred.locator", loc.String()),
		attribute.String("fred.lock", opts.Lock.String()),
	)

	set, err := func() (fs.Set[T], error) {
		if err := s.checkLocator(typ, loc); err != nil {
			return fs.Set[T]{}, err
		}
		row, err := s.store.ActiveStates(ctx, typ, loc, opts)
		if err != nil {
			return fs.Set[T]{}, err
		}
		set, unknown := fs.Fold[T](row.Names)
		if err := s.unknownFlags(ctx, op, typ, unknown); err != nil {
			return fs.Set[T]{}, err
		}
		return set, nil
	}()
	return set, c.end(err)
}

// GetStateHistory reconstructs how the flags of the object matched by loc
// changed within iv.
func GetStateHistory[T fs.Tag](ctx context.Context, s *Service, loc object.Locator, iv history.Interval) (history.Timeline[fs.Set[T]], error) {
	typ := state.ObjectTypeOf[T]()
	ctx, c := s.begin(ctx, "state_history", typ,
		attribute.String("fred.locator", loc.String()),
		attribute.String("fred.interval", iv.String()),
	)

	tl, err := func() (history.Timeline[fs.Set[T]], error) {
		if err := s.checkLocator(typ, loc); err != nil {
			return history.Timeline[fs.Set[T]]{}, err
		}
		w, err := s.store.StateIntervals(ctx, typ, loc, iv)
		if err != nil {
			return history.Timeline[fs.Set[T]]{}, err
		}
		tl, unknown, err := state.Reconstruct[T](w)
		if err != nil {
			return history.Timeline[fs.Set[T]]{}, err
		}
		if err := s.unknownFlags(ctx, "state_history", typ, unknown); err != nil {
			return history.Timeline[fs.Set[T]]{}, err
		}
		s.metrics.ObserveTimeline(string(typ), tl.Len())
		return tl, nil
	}()
	return tl, c.end(err)
}

// ObjectState pairs a registry id with the flags set on it.
type ObjectState[T fs.Tag] struct {
	ObjectID uint64
	State    fs.Set[T]
}

// GetStates returns the current flags of many objects of T's type, in the
// order of ids. Every id must exist.
func GetStates[T fs.Tag](ctx context.Context, s *Service, ids []uint64) ([]ObjectState[T], error) {
	typ := state.ObjectTypeOf[T]()
	ctx, c := s.begin(ctx, "states", typ, attribute.Int("fred.batch_size", len(ids)))

	out, err := func() ([]ObjectState[T], error) {
		rows, err := s.store.ActiveStatesBatch(ctx, typ, ids, state.QueryOptions{})
		if err != nil {
			return nil, err
		}
		out := make([]ObjectState[T], 0, len(rows))
		var unknown []string
		for _, row := range rows {
			set, u := fs.Fold[T](row.Names)
			unknown = appendNew(unknown, u...)
			out = append(out, ObjectState[T]{ObjectID: row.ObjectID, State: set})
		}
		if err := s.unknownFlags(ctx, "states", typ, unknown); err != nil {
			return nil, err
		}
		return out, nil
	}()
	return out, c.end(err)
}

func appendNew(dst []string, names ...string) []string {
	for _, name := range names {
		if !slices.Contains(dst, name) {
			dst = append(dst, name)
		}
	}
	return dst
}

// History returns the data history of the object matched by loc within iv:
// which history record was current when.
func (s *Service) History(ctx context.Context, typ object.Type, loc object.Locator, iv history.Interval) (history.Timeline[history.Ref], error) {
	ctx, c := s.begin(ctx, "history", typ,
		attribute.String("fred.locator", loc.String()),
		attribute.String("fred.interval", iv.String()),
	)

	tl, err := func() (history.Timeline[history.Ref], error) {
		if _, ok := state.VocabularyOf(typ); !ok {
			return history.Timeline[history.Ref]{}, errUnknownType(typ)
		}
		if err := s.checkLocator(typ, loc); err != nil {
			return history.Timeline[history.Ref]{}, err
		}
		return s.store.HistoryRecords(ctx, typ, loc, iv)
	}()
	return tl, c.end(err)
}
