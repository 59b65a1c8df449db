package service

import (
	"context"

	"fred/internal/history"
	"fred/internal/object"
	"fred/internal/state"
	fs "fred/internal/state/flagset"
	dErrors "fred/pkg/domain-errors"
)

// Queries for callers that learn the object type at run time. Results carry
// type-erased flag sets.

// kind binds the generic queries to the tags of one object type.
type kind struct {
	state   func(ctx context.Context, s *Service, loc object.Locator, lock state.LockMode) (fs.Value, error)
	status  func(ctx context.Context, s *Service, loc object.Locator) (fs.Value, error)
	history func(ctx context.Context, s *Service, loc object.Locator, iv history.Interval) (history.Timeline[fs.Value], error)
	batch   func(ctx context.Context, s *Service, ids []uint64) ([]ObjectValue, error)
}

func kindOf[S, X fs.Tag]() kind {
	return kind{
		state: func(ctx context.Context, s *Service, loc object.Locator, lock state.LockMode) (fs.Value, error) {
			set, err := GetStateLocked[S](ctx, s, loc, lock)
			return set.Value(), err
		},
		status: func(ctx context.Context, s *Service, loc object.Locator) (fs.Value, error) {
			set, err := GetStatus[X](ctx, s, loc)
			return set.Value(), err
		},
		history: func(ctx context.Context, s *Service, loc object.Locator, iv history.Interval) (history.Timeline[fs.Value], error) {
			tl, err := GetStateHistory[S](ctx, s, loc, iv)
			if err != nil {
				return history.Timeline[fs.Value]{}, err
			}
			return history.Map(tl, fs.Set[S].Value), nil
		},
		batch: func(ctx context.Context, s *Service, ids []uint64) ([]ObjectValue, error) {
			states, err := GetStates[S](ctx, s, ids)
			if err != nil {
				return nil, err
			}
			out := make([]ObjectValue, len(states))
			for i, st := range states {
				out[i] = ObjectValue{ObjectID: st.ObjectID, State: st.State.Value()}
			}
			return out, nil
		},
	}
}

var kinds = map[object.Type]kind{
	object.Contact: kindOf[state.ContactTag, state.ContactStatusTag](),
	object.Domain:  kindOf[state.DomainTag, state.DomainStatusTag](),
	object.Nsset:   kindOf[state.NssetTag, state.NssetStatusTag](),
	object.Keyset:  kindOf[state.KeysetTag, state.KeysetStatusTag](),
}

// ObjectValue pairs a registry id with its type-erased flags.
type ObjectValue struct {
	ObjectID uint64   `json:"object_id"`
	State    fs.Value `json:"state"`
}

func errUnknownType(typ object.Type) error {
	return dErrors.New(dErrors.CodeInvalidInput, "unknown object type "+string(typ))
}

func lookup(typ object.Type) (kind, error) {
	k, ok := kinds[typ]
	if !ok {
		return kind{}, errUnknownType(typ)
	}
	return k, nil
}

// State returns the current flags of the object of typ matched by loc.
func (s *Service) State(ctx context.Context, typ object.Type, loc object.Locator) (fs.Value, error) {
	return s.StateLocked(ctx, typ, loc, state.LockNone)
}

// StateLocked is State taking a row lock on the registry entry.
func (s *Service) StateLocked(ctx context.Context, typ object.Type, loc object.Locator, lock state.LockMode) (fs.Value, error) {
	k, err := lookup(typ)
	if err != nil {
		return fs.Value{}, err
	}
	return k.state(ctx, s, loc, lock)
}

// Status returns the externally visible flags of the object.
func (s *Service) Status(ctx context.Context, typ object.Type, loc object.Locator) (fs.Value, error) {
	k, err := lookup(typ)
	if err != nil {
		return fs.Value{}, err
	}
	return k.status(ctx, s, loc)
}

// StateHistory reconstructs the object's state timeline within iv.
func (s *Service) StateHistory(ctx context.Context, typ object.Type, loc object.Locator, iv history.Interval) (history.Timeline[fs.Value], error) {
	k, err := lookup(typ)
	if err != nil {
		return history.Timeline[fs.Value]{}, err
	}
	return k.history(ctx, s, loc, iv)
}

// States returns the current flags of many objects of typ.
func (s *Service) States(ctx context.Context, typ object.Type, ids []uint64) ([]ObjectValue, error) {
	k, err := lookup(typ)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []ObjectValue{}, nil
	}
	return k.batch(ctx, s, ids)
}
