// Package service answers state, status and history queries for registry
// objects. It runs on whatever transaction the caller placed in the context.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fred/internal/domainname"
	"fred/internal/history"
	"fred/internal/object"
	"fred/internal/state"
	fs "fred/internal/state/flagset"
	"fred/internal/state/metrics"
	dErrors "fred/pkg/domain-errors"
	"fred/pkg/platform/sentinel"
	"fred/pkg/requestcontext"
)

// Store reads raw state rows. Implementations run on the context
// transaction and return sentinel or object errors.
type Store interface {
	ActiveStates(ctx context.Context, typ object.Type, loc object.Locator, opts state.QueryOptions) (state.ObjectStates, error)
	ActiveStatesBatch(ctx context.Context, typ object.Type, ids []uint64, opts state.QueryOptions) ([]state.ObjectStates, error)
	StateIntervals(ctx context.Context, typ object.Type, loc object.Locator, iv history.Interval) (state.Window, error)
	HistoryRecords(ctx context.Context, typ object.Type, loc object.Locator, iv history.Interval) (history.Timeline[history.Ref], error)
	StateDescriptors(ctx context.Context, typ object.Type) ([]fs.Descriptor, error)
}

const tracerName = "fred/internal/state/service"

// Service turns store rows into typed states, statuses and timelines.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	strict  bool
	names   *domainname.Validator
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithStrictFlags makes state names missing from a vocabulary an internal
// error instead of a logged warning.
func WithStrictFlags(strict bool) Option {
	return func(s *Service) {
		s.strict = strict
	}
}

// WithDomainNameValidator checks domain handles before they reach the store.
// Only syntax every registered domain satisfies belongs here; a rejected
// handle reports the domain as not existing. Without a validator every
// handle is looked up.
func WithDomainNameValidator(v *domainname.Validator) Option {
	return func(s *Service) {
		s.names = v
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// call is one observed service operation.
type call struct {
	s     *Service
	ctx   context.Context
	op    string
	typ   object.Type
	span  trace.Span
	start time.Time
}

func (s *Service) begin(ctx context.Context, op string, typ object.Type, attrs ...attribute.KeyValue) (context.Context, *call) {
	attrs = append(attrs, attribute.String("fred.object_type", string(typ)))
	ctx, span := s.tracer.Start(ctx, "state."+op, trace.WithAttributes(attrs...))
	return ctx, &call{s: s, ctx: ctx, op: op, typ: typ, span: span, start: time.Now()}
}

// end closes the span, records the outcome and returns err translated into
// a domain error.
func (c *call) end(err error) error {
	defer c.span.End()
	c.s.metrics.ObserveQuery(c.op, string(c.typ), time.Since(c.start))
	if err == nil {
		return nil
	}

	err = translate(c.typ, err)
	code := dErrors.CodeOf(err)
	c.s.metrics.IncrementError(c.op, string(code))
	c.span.RecordError(err)
	c.span.SetStatus(codes.Error, string(code))

	level := slog.LevelDebug
	if code == dErrors.CodeInternal || code == dErrors.CodeTimeout || code == dErrors.CodeConflict {
		level = slog.LevelError
	}
	c.s.logger.Log(c.ctx, level, "state query failed",
		"operation", c.op,
		"object_type", c.typ,
		"code", code,
		"request_id", requestcontext.RequestID(c.ctx),
		"error", err,
	)
	return err
}

func translate(typ object.Type, err error) error {
	var (
		coded    *dErrors.Error
		notFound *object.DoesNotExistError
		invalid  *object.InvalidHistoryIntervalError
		badName  *domainname.InvalidNameError
	)
	switch {
	case errors.As(err, &coded):
		return err
	case errors.As(err, &notFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "object does not exist")
	case errors.As(err, &invalid):
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid history interval")
	case errors.As(err, &badName):
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid domain name")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, string(typ)+" does not exist")
	case errors.Is(err, sentinel.ErrInvalidInterval):
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid history interval")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "state query cancelled")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "state query conflicted with a concurrent transaction")
	case errors.Is(err, sentinel.ErrInconsistent):
		return dErrors.Wrap(err, dErrors.CodeInternal, "inconsistent registry data")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeInternal, "registry database unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "state query failed")
}

// checkLocator short-circuits lookups of domain handles that fail the
// configured syntax checks: no registered domain carries such a handle, so
// the object does not exist.
func (s *Service) checkLocator(typ object.Type, loc object.Locator) error {
	if loc.Kind() == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "object locator is required")
	}
	if typ == object.Domain && loc.Kind() == object.ByHandle {
		if err := s.names.Validate(loc.Handle(typ)); err != nil {
			return fmt.Errorf("%w: %w", &object.DoesNotExistError{Type: typ, Locator: loc}, err)
		}
	}
	return nil
}

// unknownFlags applies the unknown flag policy to names read for typ.
func (s *Service) unknownFlags(ctx context.Context, op string, typ object.Type, names []string) error {
	if len(names) == 0 {
		return nil
	}
	for _, name := range names {
		s.metrics.IncrementUnknownFlag(string(typ), name)
	}
	if s.strict {
		return errors.Join(sentinel.ErrInconsistent, &fs.UnknownFlagsError{Kind: string(typ), Names: names})
	}
	s.logger.WarnContext(ctx, "ignoring unknown state flags",
		"operation", op,
		"object_type", typ,
		"flags", names,
	)
	return nil
}
