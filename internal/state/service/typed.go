package service

import (
	"context"

	"fred/internal/history"
	"fred/internal/object"
	"fred/internal/state"
)

func (s *Service) GetContactState(ctx context.Context, loc object.Locator) (state.ContactState, error) {
	return GetState[state.ContactTag](ctx, s, loc)
}

func (s *Service) GetDomainState(ctx context.Context, loc object.Locator) (state.DomainState, error) {
	return GetState[state.DomainTag](ctx, s, loc)
}

func (s *Service) GetNssetState(ctx context.Context, loc object.Locator) (state.NssetState, error) {
	return GetState[state.NssetTag](ctx, s, loc)
}

func (s *Service) GetKeysetState(ctx context.Context, loc object.Locator) (state.KeysetState, error) {
	return GetState[state.KeysetTag](ctx, s, loc)
}

func (s *Service) GetContactStatus(ctx context.Context, loc object.Locator) (state.ContactStatus, error) {
	return GetStatus[state.ContactStatusTag](ctx, s, loc)
}

func (s *Service) GetDomainStatus(ctx context.Context, loc object.Locator) (state.DomainStatus, error) {
	return GetStatus[state.DomainStatusTag](ctx, s, loc)
}

func (s *Service) GetNssetStatus(ctx context.Context, loc object.Locator) (state.NssetStatus, error) {
	return GetStatus[state.NssetStatusTag](ctx, s, loc)
}

func (s *Service) GetKeysetStatus(ctx context.Context, loc object.Locator) (state.KeysetStatus, error) {
	return GetStatus[state.KeysetStatusTag](ctx, s, loc)
}

// Reconstructed state timelines per object type.
type (
	ContactStateHistory = history.Timeline[state.ContactState]
	DomainStateHistory  = history.Timeline[state.DomainState]
	NssetStateHistory   = history.Timeline[state.NssetState]
	KeysetStateHistory  = history.Timeline[state.KeysetState]
)

func (s *Service) GetContactStateHistory(ctx context.Context, loc object.Locator, iv history.Interval) (ContactStateHistory, error) {
	return GetStateHistory[state.ContactTag](ctx, s, loc, iv)
}

func (s *Service) GetDomainStateHistory(ctx context.Context, loc object.Locator, iv history.Interval) (DomainStateHistory, error) {
	return GetStateHistory[state.DomainTag](ctx, s, loc, iv)
}

func (s *Service) GetNssetStateHistory(ctx context.Context, loc object.Locator, iv history.Interval) (NssetStateHistory, error) {
	return GetStateHistory[state.NssetTag](ctx, s, loc, iv)
}

func (s *Service) GetKeysetStateHistory(ctx context.Context, loc object.Locator, iv history.Interval) (KeysetStateHistory, error) {
	return GetStateHistory[state.KeysetTag](ctx, s, loc, iv)
}
