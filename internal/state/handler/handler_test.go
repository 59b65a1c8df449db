package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fred/internal/history"
	"fred/internal/object"
	"fred/internal/state"
	fs "fred/internal/state/flagset"
	"fred/internal/state/handler/mocks"
	"fred/internal/state/service"
	dErrors "fred/pkg/domain-errors"
	"fred/pkg/platform/httputil"
	"fred/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *mocks.MockService
	router      chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = mocks.NewMockService(s.ctrl)
	h := New(s.mockService, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) get(ctx context.Context, path string) *httptest.ResponseRecorder {
	req := testutil.NewRequest(s.T(), http.MethodGet, path).WithContext(ctx)
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) decodeError(rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	return *testutil.UnmarshalResponse[httputil.ErrorResponse](s.T(), rec)
}

func (s *HandlerSuite) TestState() {
	s.Run("returns the flag names of the object", func() {
		flags := fs.New(state.DomainOutzone, state.DomainServerUpdateProhibited).Value()
		s.mockService.EXPECT().
			State(gomock.Any(), object.Domain, object.WithHandle("example.cz")).
			Return(flags, nil)

		rec := s.get(context.Background(), "/v1/objects/domain/handle/example.cz/state")
		s.Require().Equal(http.StatusOK, rec.Code)

		var body struct {
			ObjectType string   `json:"object_type"`
			Locator    string   `json:"locator"`
			Flags      []string `json:"flags"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
		s.Equal("domain", body.ObjectType)
		s.ElementsMatch([]string{"outzone", "serverUpdateProhibited"}, body.Flags)
	})

	s.Run("empty state is an empty list", func() {
		s.mockService.EXPECT().
			State(gomock.Any(), object.Contact, object.WithID(7)).
			Return(fs.Set[state.ContactTag]{}.Value(), nil)

		rec := s.get(context.Background(), "/v1/objects/contact/id/7/state")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), `"flags":[]`)
	})

	s.Run("unknown object type is a bad request", func() {
		rec := s.get(context.Background(), "/v1/objects/registrar/id/7/state")
		testutil.AssertStatusAndError(s.T(), rec, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("malformed locator is a bad request", func() {
		rec := s.get(context.Background(), "/v1/objects/contact/id/seven/state")
		s.Equal(http.StatusBadRequest, rec.Code)

		rec = s.get(context.Background(), "/v1/objects/contact/roid/7/state")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("missing object is not found", func() {
		s.mockService.EXPECT().
			State(gomock.Any(), object.Nsset, object.WithID(9)).
			Return(fs.Value{}, dErrors.New(dErrors.CodeNotFound, "nsset does not exist"))

		rec := s.get(context.Background(), "/v1/objects/nsset/id/9/state")
		testutil.AssertStatusAndError(s.T(), rec, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	s.Run("internal errors hide their description", func() {
		s.mockService.EXPECT().
			State(gomock.Any(), object.Keyset, object.WithID(3)).
			Return(fs.Value{}, dErrors.New(dErrors.CodeInternal, "object registry inconsistent"))

		rec := s.get(context.Background(), "/v1/objects/keyset/id/3/state")
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.Empty(s.decodeError(rec).ErrorDescription)
	})
}

func (s *HandlerSuite) TestStatus() {
	id := uuid.New()
	s.mockService.EXPECT().
		Status(gomock.Any(), object.Keyset, object.WithUUID(id)).
		Return(fs.New(state.KeysetLinked).Value(), nil)

	rec := s.get(context.Background(), "/v1/objects/keyset/uuid/"+id.String()+"/status")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"flags":["linked"]`)
}

func (s *HandlerSuite) TestStateHistory() {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	outzone := created.Add(24 * time.Hour)

	s.Run("passes parsed limits and returns the timeline", func() {
		want := history.Between(history.At(created), history.HistoryID(12))
		tl := history.Timeline[fs.Value]{
			Records: []history.Record[fs.Value]{
				{ValidFrom: created, Value: fs.Set[state.DomainTag]{}.Value()},
				{ValidFrom: outzone, Value: fs.New(state.DomainOutzone).Value()},
			},
		}
		s.mockService.EXPECT().
			StateHistory(gomock.Any(), object.Domain, object.WithID(5), want).
			Return(tl, nil)

		rec := s.get(context.Background(),
			"/v1/objects/domain/id/5/state-history?lower="+created.Format(time.RFC3339)+"&upper=history:12")
		s.Require().Equal(http.StatusOK, rec.Code)

		var body struct {
			Records []struct {
				ValidFrom time.Time `json:"valid_from"`
				Value     []string  `json:"value"`
			} `json:"records"`
			ValidTo *time.Time `json:"valid_to"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
		s.Require().Len(body.Records, 2)
		s.Empty(body.Records[0].Value)
		s.Equal([]string{"outzone"}, body.Records[1].Value)
		s.True(body.Records[1].ValidFrom.Equal(outzone))
		s.Nil(body.ValidTo)
	})

	s.Run("now resolves to the request time", func() {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		s.mockService.EXPECT().
			StateHistory(gomock.Any(), object.Domain, object.WithID(5), history.Between(history.NoLimit(), history.At(now))).
			Return(history.Timeline[fs.Value]{ValidTo: &now}, nil)

		req := testutil.NewRequest(s.T(), http.MethodGet, "/v1/objects/domain/id/5/state-history?upper=now")
		rec := testutil.DoRequest(s.router, testutil.WithRequestTime(req, now))
		testutil.AssertStatus(s.T(), rec, http.StatusOK)
	})

	s.Run("malformed limit is a bad request", func() {
		rec := s.get(context.Background(), "/v1/objects/domain/id/5/state-history?lower=yesterday")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("reversed timestamps are invalid input", func() {
		rec := s.get(context.Background(), "/v1/objects/domain/id/5/state-history?lower="+
			outzone.Format(time.RFC3339)+"&upper="+created.Format(time.RFC3339))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(dErrors.CodeInvalidInput), s.decodeError(rec).Error)
	})
}

func (s *HandlerSuite) TestHistory() {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ref := history.Ref{HistoryID: 100, UUID: uuid.New()}
	s.mockService.EXPECT().
		History(gomock.Any(), object.Contact, object.WithHandle("CID-1"), history.Whole()).
		Return(history.Timeline[history.Ref]{Records: []history.Record[history.Ref]{{ValidFrom: created, Value: ref}}}, nil)

	rec := s.get(context.Background(), "/v1/objects/contact/handle/CID-1/history")
	s.Require().Equal(http.StatusOK, rec.Code)

	var body HistoryResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal(object.Contact, body.ObjectType)
	s.Require().Len(body.Records, 1)
	s.Equal(ref, body.Records[0].Value)
}

func (s *HandlerSuite) TestStates() {
	s.Run("accepts repeated and comma separated ids", func() {
		s.mockService.EXPECT().
			States(gomock.Any(), object.Contact, []uint64{1, 2, 3}).
			Return([]service.ObjectValue{
				{ObjectID: 1, State: fs.New(state.ContactLinked).Value()},
				{ObjectID: 2, State: fs.Set[state.ContactTag]{}.Value()},
				{ObjectID: 3, State: fs.Set[state.ContactTag]{}.Value()},
			}, nil)

		rec := s.get(context.Background(), "/v1/objects/contact/states?id=1,2&id=3")
		s.Require().Equal(http.StatusOK, rec.Code)

		var body struct {
			Objects []struct {
				ObjectID uint64   `json:"object_id"`
				State    []string `json:"state"`
			} `json:"objects"`
		}
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
		s.Require().Len(body.Objects, 3)
		s.Equal([]string{"linked"}, body.Objects[0].State)
	})

	s.Run("requires at least one id", func() {
		rec := s.get(context.Background(), "/v1/objects/contact/states")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("rejects non numeric ids", func() {
		rec := s.get(context.Background(), "/v1/objects/contact/states?id=1,x")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func TestRequestIDReachesErrorLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	var logs bytes.Buffer
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(&logs, nil))).Register(r)

	testutil.Given(t, "a failing state query", func(t *testing.T) {
		svc.EXPECT().
			State(gomock.Any(), object.Domain, object.WithID(1)).
			Return(fs.Value{}, dErrors.New(dErrors.CodeInternal, "registry inconsistent"))

		testutil.When(t, "the request carries an id", func(t *testing.T) {
			req := testutil.WithRequestID(testutil.NewRequest(t, http.MethodGet, "/v1/objects/domain/id/1/state"), "req-1")
			rec := testutil.DoRequest(r, req)

			testutil.Then(t, "the failure is logged with it", func(t *testing.T) {
				testutil.AssertStatus(t, rec, http.StatusInternalServerError)
				assert.Contains(t, logs.String(), "request_id=req-1")
				assert.Contains(t, logs.String(), "level=ERROR")
			})
			testutil.And(t, "the description stays out of the response", func(t *testing.T) {
				assert.NotContains(t, rec.Body.String(), "registry inconsistent")
			})
		})
	})
}

func TestParseIDsLimit(t *testing.T) {
	values := make([]string, maxBatch+1)
	for i := range values {
		values[i] = "1"
	}
	if _, err := parseIDs(values); !dErrors.HasCode(err, dErrors.CodeBadRequest) {
		t.Fatalf("expected bad request for %d ids, got %v", len(values), err)
	}
	if ids, err := parseIDs(values[:maxBatch]); err != nil || len(ids) != maxBatch {
		t.Fatalf("expected %d ids, got %d (%v)", maxBatch, len(ids), err)
	}
}
