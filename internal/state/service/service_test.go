package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fred/internal/domainname"
	"fred/internal/history"
	"fred/internal/object"
	"fred/internal/state"
	fs "fred/internal/state/flagset"
	"fred/internal/state/metrics"
	"fred/internal/state/service/mocks"
	dErrors "fred/pkg/domain-errors"
	"fred/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockStore *mocks.MockStore
	metrics   *metrics.Metrics
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.ctx = context.Background()
	s.service = s.newService()
}

func (s *ServiceSuite) newService(opts ...Option) *Service {
	validator, err := domainname.DefaultRegistry().Validator()
	s.Require().NoError(err)
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithDomainNameValidator(validator),
	}
	return New(s.mockStore, append(base, opts...)...)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestGetState() {
	loc := object.WithID(42)

	s.Run("folds active state names into a typed set", func() {
		s.mockStore.EXPECT().
			ActiveStates(gomock.Any(), object.Domain, loc, state.QueryOptions{}).
			Return(state.ObjectStates{ObjectID: 42, Names: []string{"outzone", "serverUpdateProhibited"}}, nil)

		got, err := s.service.GetDomainState(s.ctx, loc)
		s.Require().NoError(err)
		s.True(got.Equal(fs.New(state.DomainOutzone, state.DomainServerUpdateProhibited)))
	})

	s.Run("object without states yields the empty set", func() {
		s.mockStore.EXPECT().
			ActiveStates(gomock.Any(), object.Contact, loc, state.QueryOptions{}).
			Return(state.ObjectStates{ObjectID: 42}, nil)

		got, err := s.service.GetContactState(s.ctx, loc)
		s.Require().NoError(err)
		s.True(got.None())
	})

	s.Run("unknown names are ignored and counted", func() {
		s.mockStore.EXPECT().
			ActiveStates(gomock.Any(), object.Nsset, loc, state.QueryOptions{}).
			Return(state.ObjectStates{ObjectID: 42, Names: []string{"linked", "futureFlag"}}, nil)

		got, err := s.service.GetNssetState(s.ctx, loc)
		s.Require().NoError(err)
		s.True(got.Equal(fs.New(state.NssetLinked)))
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.UnknownFlags.WithLabelValues("nsset", "futureFlag")))
	})

	s.Run("strict mode rejects unknown names", func() {
		strict := s.newService(WithStrictFlags(true))
		s.mockStore.EXPECT().
			ActiveStates(gomock.Any(), object.Keyset, loc, state.QueryOptions{}).
			Return(state.ObjectStates{ObjectID: 42, Names: []string{"futureFlag"}}, nil)

		_, err := strict.GetKeysetState(s.ctx, loc)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		var unknown *fs.UnknownFlagsError
		s.Require().True(errors.As(err, &unknown))
		s.Equal([]string{"futureFlag"}, unknown.Names)
	})

	s.Run("explicit lock is passed to the store", func() {
		s.mockStore.EXPECT().
			ActiveStates(gomock.Any(), object.Domain, loc, state.QueryOptions{Lock: state.LockUpdate}).
			Return(state.ObjectStates{ObjectID: 42}, nil)

		_, err := GetStateLocked[state.DomainTag](s.ctx, s.service, loc, state.LockUpdate)
		s.Require().NoError(err)
	})
}

func (s *ServiceSuite) TestGetStatus() {
	loc := object.WithHandle("CID-7")
	s.mockStore.EXPECT().
		ActiveStates(gomock.Any(), object.Contact, loc, state.QueryOptions{ExternalOnly: true}).
		Return(state.ObjectStates{ObjectID: 7, Names: []string{"linked", "identifiedContact"}}, nil)

	got, err := s.service.GetContactStatus(s.ctx, loc)
	s.Require().NoError(err)
	s.Equal([]string{"linked", "identifiedContact"}, got.Names())
	s.Equal(10, got.Size())
}

func (s *ServiceSuite) TestErrorTranslation() {
	loc := object.WithID(1)
	tests := []struct {
		name string
		err  error
		code dErrors.Code
	}{
		{"missing object", &object.DoesNotExistError{Type: object.Domain, Locator: loc}, dErrors.CodeNotFound},
		{"unresolved marker", &object.InvalidHistoryIntervalError{Type: object.Domain, Reason: "marker"}, dErrors.CodeInvalidInput},
		{"duplicate rows", fmt.Errorf("two rows: %w", sentinel.ErrInconsistent), dErrors.CodeInternal},
		{"cancelled query", fmt.Errorf("query: %w", context.DeadlineExceeded), dErrors.CodeTimeout},
		{"serialization failure", fmt.Errorf("query: %w", sentinel.ErrConflict), dErrors.CodeConflict},
		{"driver failure", errors.New("connection reset"), dErrors.CodeInternal},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.mockStore.EXPECT().ActiveStates(gomock.Any(), object.Domain, loc, gomock.Any()).Return(state.ObjectStates{}, tt.err)

			_, err := s.service.GetDomainState(s.ctx, loc)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, tt.code), "got %v", err)
			s.True(errors.Is(err, tt.err))
			s.Equal(1, strings.Count(err.Error(), tt.err.Error()), "cause repeated in %q", err.Error())
		})
	}
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.QueryErrors.WithLabelValues("state", string(dErrors.CodeNotFound))))
}

func (s *ServiceSuite) TestDomainHandleLookup() {
	s.Run("registered domains resolve without a configured validator", func() {
		svc := New(s.mockStore,
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			WithMetrics(s.metrics),
		)
		for _, handle := range []string{"xn--hkyrky-ptac70bc.cz", "ab--cd.cz", "nic.cz"} {
			loc := object.WithHandle(handle)
			s.mockStore.EXPECT().
				ActiveStates(gomock.Any(), object.Domain, loc, state.QueryOptions{}).
				Return(state.ObjectStates{ObjectID: 5, Names: []string{"outzone"}}, nil)

			got, err := svc.GetDomainState(s.ctx, loc)
			s.Require().NoError(err, handle)
			s.True(got.IsSet(state.DomainOutzone), handle)
		}
	})

	s.Run("handle failing the configured checks does not exist", func() {
		_, err := s.service.GetDomainState(s.ctx, object.WithHandle("bad_name.cz"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound), "got %v", err)
		var missing *object.DoesNotExistError
		s.True(errors.As(err, &missing))
		var invalid *domainname.InvalidNameError
		s.True(errors.As(err, &invalid))
		s.Equal(1, strings.Count(err.Error(), invalid.Error()))
	})

	s.Run("handles of other types are not checked as domain names", func() {
		loc := object.WithHandle("bad_name")
		s.mockStore.EXPECT().ActiveStates(gomock.Any(), object.Contact, loc, gomock.Any()).Return(state.ObjectStates{ObjectID: 1}, nil)
		_, err := s.service.GetContactState(s.ctx, loc)
		s.NoError(err)
	})

	s.Run("zero locator is rejected", func() {
		_, err := s.service.GetDomainState(s.ctx, object.Locator{})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestGetStateHistory() {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := created.Add(time.Hour)
	t2 := t1.Add(time.Hour)
	loc := object.WithHandle("nic.cz")
	iv := history.Whole()

	s.Run("reconstructs the timeline from the store window", func() {
		s.mockStore.EXPECT().StateIntervals(gomock.Any(), object.Domain, loc, iv).Return(state.Window{
			ObjectType: object.Domain,
			CreatedAt:  created,
			Lower:      created,
			Intervals: []state.Interval{
				{Name: "outzone", ValidFrom: t1, ValidTo: &t2},
				{Name: "mystery", ValidFrom: t1},
			},
		}, nil)

		tl, err := s.service.GetDomainStateHistory(s.ctx, loc, iv)
		s.Require().NoError(err)
		s.Require().Len(tl.Records, 3)
		s.True(tl.Records[0].Value.None())
		s.True(tl.Records[1].Value.IsSet(state.DomainOutzone))
		s.Equal(t2, tl.Records[2].ValidFrom)
		s.Nil(tl.ValidTo)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.UnknownFlags.WithLabelValues("domain", "mystery")))
	})

	s.Run("upper limit before creation is an invalid interval", func() {
		before := created.Add(-time.Hour)
		s.mockStore.EXPECT().StateIntervals(gomock.Any(), object.Domain, loc, iv).Return(state.Window{
			ObjectType: object.Domain,
			CreatedAt:  created,
			Lower:      before.Add(-time.Hour),
			Upper:      &before,
		}, nil)

		_, err := s.service.GetDomainStateHistory(s.ctx, loc, iv)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestDynamicQueries() {
	loc := object.WithID(5)

	s.Run("state of a runtime type", func() {
		s.mockStore.EXPECT().ActiveStates(gomock.Any(), object.Keyset, loc, state.QueryOptions{}).
			Return(state.ObjectStates{ObjectID: 5, Names: []string{"deleteCandidate"}}, nil)

		v, err := s.service.State(s.ctx, object.Keyset, loc)
		s.Require().NoError(err)
		s.Equal("keyset", v.Kind())
		s.True(v.IsSet("deleteCandidate"))

		typed, err := fs.FromValue[state.KeysetTag](v)
		s.Require().NoError(err)
		s.True(typed.IsSet(state.KeysetDeleteCandidate))
	})

	s.Run("status of a runtime type", func() {
		s.mockStore.EXPECT().ActiveStates(gomock.Any(), object.Domain, loc, state.QueryOptions{ExternalOnly: true}).
			Return(state.ObjectStates{ObjectID: 5, Names: []string{"expired"}}, nil)

		v, err := s.service.Status(s.ctx, object.Domain, loc)
		s.Require().NoError(err)
		s.Equal([]string{"expired"}, v.Names())
	})

	s.Run("state history of a runtime type", func() {
		created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		s.mockStore.EXPECT().StateIntervals(gomock.Any(), object.Contact, loc, history.Whole()).Return(state.Window{
			ObjectType: object.Contact,
			CreatedAt:  created,
			Lower:      created,
			Intervals:  []state.Interval{{Name: "linked", ValidFrom: created, PresentsOnBegin: true}},
		}, nil)

		tl, err := s.service.StateHistory(s.ctx, object.Contact, loc, history.Whole())
		s.Require().NoError(err)
		s.Require().Len(tl.Records, 1)
		s.Equal([]string{"linked"}, tl.Records[0].Value.Names())
	})

	s.Run("batch preserves order", func() {
		s.mockStore.EXPECT().ActiveStatesBatch(gomock.Any(), object.Nsset, []uint64{3, 1}, state.QueryOptions{}).
			Return([]state.ObjectStates{{ObjectID: 3, Names: []string{"linked"}}, {ObjectID: 1}}, nil)

		got, err := s.service.States(s.ctx, object.Nsset, []uint64{3, 1})
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal(uint64(3), got[0].ObjectID)
		s.True(got[0].State.IsSet("linked"))
		s.Zero(got[1].State.Count())
	})

	s.Run("empty batch does not query", func() {
		got, err := s.service.States(s.ctx, object.Nsset, nil)
		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("data history", func() {
		tl := history.Timeline[history.Ref]{Records: []history.Record[history.Ref]{{Value: history.Ref{HistoryID: 9}}}}
		s.mockStore.EXPECT().HistoryRecords(gomock.Any(), object.Domain, loc, history.Whole()).Return(tl, nil)

		got, err := s.service.History(s.ctx, object.Domain, loc, history.Whole())
		s.Require().NoError(err)
		s.Equal(tl, got)
	})

	s.Run("unknown type", func() {
		_, err := s.service.State(s.ctx, object.Type("registrar"), loc)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = s.service.History(s.ctx, object.Type("registrar"), loc, history.Whole())
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestCheckVocabularies() {
	for _, typ := range object.Types {
		vocabulary, _ := state.VocabularyOf(typ)
		descriptors := vocabulary.Descriptors()
		if typ == object.Domain {
			descriptors = append(descriptors[1:], fs.ManualFlag("newPolicyFlag", fs.External))
			descriptors[0].Visibility = fs.Internal
		}
		s.mockStore.EXPECT().StateDescriptors(gomock.Any(), typ).Return(descriptors, nil)
	}

	drifts, err := s.service.CheckVocabularies(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(drifts, 1)

	domain, _ := state.VocabularyOf(object.Domain)
	s.Equal(object.Domain, drifts[0].Type)
	s.Equal([]string{domain.At(0).Name}, drifts[0].Missing)
	s.Equal([]string{"newPolicyFlag"}, drifts[0].Undeclared)
	s.Equal([]string{domain.At(1).Name}, drifts[0].Misclassified)
}
