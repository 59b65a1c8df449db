// Package handler exposes read-only state and history queries over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"fred/internal/history"
	"fred/internal/object"
	fs "fred/internal/state/flagset"
	"fred/internal/state/service"
	dErrors "fred/pkg/domain-errors"
	"fred/pkg/platform/httputil"
	"fred/pkg/requestcontext"
)

// Service defines the state queries the handler serves.
type Service interface {
	State(ctx context.Context, typ object.Type, loc object.Locator) (fs.Value, error)
	Status(ctx context.Context, typ object.Type, loc object.Locator) (fs.Value, error)
	StateHistory(ctx context.Context, typ object.Type, loc object.Locator, iv history.Interval) (history.Timeline[fs.Value], error)
	History(ctx context.Context, typ object.Type, loc object.Locator, iv history.Interval) (history.Timeline[history.Ref], error)
	States(ctx context.Context, typ object.Type, ids []uint64) ([]service.ObjectValue, error)
}

// maxBatch bounds the ids of one batch request.
const maxBatch = 1000

// Handler serves the /v1/objects routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new state Handler.
func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register registers the state routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1/objects/{type}", func(r chi.Router) {
		r.Get("/states", h.handleStates)
		r.Route("/{by}/{locator}", func(r chi.Router) {
			r.Get("/state", h.handleState)
			r.Get("/status", h.handleStatus)
			r.Get("/state-history", h.handleStateHistory)
			r.Get("/history", h.handleHistory)
		})
	})
}

// StateResponse is the body of state and status responses.
type StateResponse struct {
	ObjectType object.Type `json:"object_type"`
	Locator    string      `json:"locator"`
	Flags      fs.Value    `json:"flags"`
}

// StateHistoryResponse is the body of state-history responses.
type StateHistoryResponse struct {
	ObjectType object.Type `json:"object_type"`
	Locator    string      `json:"locator"`
	history.Timeline[fs.Value]
}

// HistoryResponse is the body of data history responses.
type HistoryResponse struct {
	ObjectType object.Type `json:"object_type"`
	Locator    string      `json:"locator"`
	history.Timeline[history.Ref]
}

// StatesResponse is the body of batch state responses.
type StatesResponse struct {
	ObjectType object.Type           `json:"object_type"`
	Objects    []service.ObjectValue `json:"objects"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	h.serveFlags(w, r, "state", h.service.State)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.serveFlags(w, r, "status", h.service.Status)
}

func (h *Handler) serveFlags(w http.ResponseWriter, r *http.Request, op string,
	query func(context.Context, object.Type, object.Locator) (fs.Value, error)) {
	ctx := r.Context()
	typ, loc, err := parseTarget(r)
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}
	flags, err := query(ctx, typ, loc)
	if err != nil {
		h.fail(ctx, w, op, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StateResponse{ObjectType: typ, Locator: loc.String(), Flags: flags})
}

func (h *Handler) handleStateHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typ, loc, err := parseTarget(r)
	if err != nil {
		h.fail(ctx, w, "state_history", err)
		return
	}
	iv, err := parseInterval(r)
	if err != nil {
		h.fail(ctx, w, "state_history", err)
		return
	}
	tl, err := h.service.StateHistory(ctx, typ, loc, iv)
	if err != nil {
		h.fail(ctx, w, "state_history", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StateHistoryResponse{ObjectType: typ, Locator: loc.String(), Timeline: tl})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typ, loc, err := parseTarget(r)
	if err != nil {
		h.fail(ctx, w, "history", err)
		return
	}
	iv, err := parseInterval(r)
	if err != nil {
		h.fail(ctx, w, "history", err)
		return
	}
	tl, err := h.service.History(ctx, typ, loc, iv)
	if err != nil {
		h.fail(ctx, w, "history", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HistoryResponse{ObjectType: typ, Locator: loc.String(), Timeline: tl})
}

func (h *Handler) handleStates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typ, err := parseType(r)
	if err != nil {
		h.fail(ctx, w, "states", err)
		return
	}
	ids, err := parseIDs(r.URL.Query()["id"])
	if err != nil {
		h.fail(ctx, w, "states", err)
		return
	}
	objects, err := h.service.States(ctx, typ, ids)
	if err != nil {
		h.fail(ctx, w, "states", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatesResponse{ObjectType: typ, Objects: objects})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	code := dErrors.CodeOf(err)
	if httputil.StatusOf(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "state request failed",
			"operation", op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, "state request rejected",
			"operation", op,
			"code", code,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}

func parseType(r *http.Request) (object.Type, error) {
	typ, err := object.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, err.Error())
	}
	return typ, nil
}

func parseTarget(r *http.Request) (object.Type, object.Locator, error) {
	typ, err := parseType(r)
	if err != nil {
		return "", object.Locator{}, err
	}
	loc, err := object.ParseLocator(chi.URLParam(r, "by"), chi.URLParam(r, "locator"))
	if err != nil {
		return "", object.Locator{}, dErrors.Wrap(err, dErrors.CodeBadRequest, err.Error())
	}
	return typ, loc, nil
}

// parseInterval reads the lower and upper query parameters. Besides the
// history.ParseLimit forms, "now" stands for the time the request arrived.
func parseInterval(r *http.Request) (history.Interval, error) {
	q := r.URL.Query()
	lower, err := parseLimit(r.Context(), q.Get("lower"))
	if err != nil {
		return history.Interval{}, err
	}
	upper, err := parseLimit(r.Context(), q.Get("upper"))
	if err != nil {
		return history.Interval{}, err
	}
	iv := history.Between(lower, upper)
	if err := iv.Validate(); err != nil {
		return history.Interval{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, err.Error())
	}
	return iv, nil
}

func parseLimit(ctx context.Context, s string) (history.Limit, error) {
	if strings.EqualFold(strings.TrimSpace(s), "now") {
		return history.At(requestcontext.Now(ctx)), nil
	}
	l, err := history.ParseLimit(s)
	if err != nil {
		return history.Limit{}, dErrors.Wrap(err, dErrors.CodeBadRequest, err.Error())
	}
	return l, nil
}

func parseIDs(values []string) ([]uint64, error) {
	var ids []uint64
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, dErrors.New(dErrors.CodeBadRequest, "invalid object id "+strconv.Quote(part))
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one id is required")
	}
	if len(ids) > maxBatch {
		return nil, dErrors.New(dErrors.CodeBadRequest, "too many ids (max "+strconv.Itoa(maxBatch)+")")
	}
	return ids, nil
}
