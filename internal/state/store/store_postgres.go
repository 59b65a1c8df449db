// Package store reads object states and history from the registry database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"fred/internal/history"
	"fred/internal/object"
	"fred/internal/state"
	fs "fred/internal/state/flagset"
	"fred/pkg/platform/sentinel"
	"fred/pkg/platform/tx"
)

// PostgresStore runs state queries on the transaction carried by the context,
// or on the database handle when there is none. It never begins or finishes
// a transaction.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed state store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// query accumulates positional arguments for one statement.
type query struct {
	args []any
}

func (q *query) bind(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// locate renders the WHERE condition selecting the non-erased entry of typ
// matched by loc. ok is false when loc can match nothing.
func (q *query) locate(typ object.Type, loc object.Locator) (cond string, ok bool) {
	typeCond := "obr.type = (SELECT id FROM enum_object_type WHERE name = " + q.bind(string(typ)) + ") AND obr.erdate IS NULL"
	switch loc.Kind() {
	case object.ByID:
		if loc.ID() > math.MaxInt64 {
			return "", false
		}
		return typeCond + " AND obr.id = " + q.bind(int64(loc.ID())), true
	case object.ByHandle:
		handle := loc.Handle(typ)
		if typ == object.Domain {
			return typeCond + " AND obr.name = LOWER(" + q.bind(handle) + ")", true
		}
		return typeCond + " AND UPPER(obr.name) = UPPER(" + q.bind(handle) + ")", true
	case object.ByUUID:
		return typeCond + " AND obr.uuid = " + q.bind(loc.UUID()), true
	}
	return "", false
}

// ActiveStates returns the names of the states currently in effect for the
// entry matched by loc.
func (s *PostgresStore) ActiveStates(ctx context.Context, typ object.Type, loc object.Locator, opts state.QueryOptions) (state.ObjectStates, error) {
	var q query
	cond, ok := q.locate(typ, loc)
	if !ok {
		return state.ObjectStates{}, &object.DoesNotExistError{Type: typ, Locator: loc}
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT obr.id, eos.name
		FROM object_registry obr
		LEFT JOIN object_state os ON os.object_id = obr.id AND os.valid_to IS NULL
		LEFT JOIN enum_object_states eos ON eos.id = os.state_id AND obr.type = ANY(eos.types)`)
	if opts.ExternalOnly {
		sb.WriteString(" AND eos.external")
	}
	sb.WriteString("\n\t\tWHERE ")
	sb.WriteString(cond)
	switch opts.Lock {
	case state.LockShare:
		sb.WriteString("\n\t\tFOR SHARE OF obr")
	case state.LockUpdate:
		sb.WriteString("\n\t\tFOR UPDATE OF obr")
	}

	rows, err := tx.QuerierFrom(ctx, s.db).QueryContext(ctx, sb.String(), q.args...)
	if err != nil {
		return state.ObjectStates{}, mapError("query active states", err)
	}
	defer rows.Close()

	found := map[uint64][]string{}
	for rows.Next() {
		var (
			id   int64
			name sql.NullString
		)
		if err := rows.Scan(&id, &name); err != nil {
			return state.ObjectStates{}, fmt.Errorf("scan active state: %w", err)
		}
		names := found[uint64(id)]
		if name.Valid {
			names = append(names, name.String)
		}
		found[uint64(id)] = names
	}
	if err := rows.Err(); err != nil {
		return state.ObjectStates{}, mapError("iterate active states", err)
	}

	switch len(found) {
	case 0:
		return state.ObjectStates{}, &object.DoesNotExistError{Type: typ, Locator: loc}
	case 1:
		for id, names := range found {
			return state.ObjectStates{ObjectID: id, Names: names}, nil
		}
	}
	return state.ObjectStates{}, fmt.Errorf("%s %s matches %d registry entries: %w", typ, loc, len(found), sentinel.ErrInconsistent)
}

// ActiveStatesBatch returns the active states of every entry in ids, in the
// order given. Every id must name a non-erased entry of typ.
func (s *PostgresStore) ActiveStatesBatch(ctx context.Context, typ object.Type, ids []uint64, opts state.QueryOptions) ([]state.ObjectStates, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > math.MaxInt64 {
			return nil, &object.DoesNotExistError{Type: typ, Locator: object.WithID(id)}
		}
		keys = append(keys, int64(id))
	}

	var q query
	external := ""
	if opts.ExternalOnly {
		external = " AND eos.external"
	}
	stmt := `
		SELECT obr.id, eos.name
		FROM object_registry obr
		LEFT JOIN object_state os ON os.object_id = obr.id AND os.valid_to IS NULL
		LEFT JOIN enum_object_states eos ON eos.id = os.state_id AND obr.type = ANY(eos.types)` + external + `
		WHERE obr.type = (SELECT id FROM enum_object_type WHERE name = ` + q.bind(string(typ)) + `)
			AND obr.erdate IS NULL
			AND obr.id = ANY(` + q.bind(pq.Array(keys)) + `::bigint[])`
	switch opts.Lock {
	case state.LockShare:
		stmt += "\n\t\tFOR SHARE OF obr"
	case state.LockUpdate:
		stmt += "\n\t\tFOR UPDATE OF obr"
	}

	rows, err := tx.QuerierFrom(ctx, s.db).QueryContext(ctx, stmt, q.args...)
	if err != nil {
		return nil, mapError("query active states batch", err)
	}
	defer rows.Close()

	found := make(map[uint64][]string, len(ids))
	for rows.Next() {
		var (
			id   int64
			name sql.NullString
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan active state: %w", err)
		}
		names := found[uint64(id)]
		if name.Valid {
			names = append(names, name.String)
		}
		found[uint64(id)] = names
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate active states batch", err)
	}

	out := make([]state.ObjectStates, 0, len(ids))
	for _, id := range ids {
		names, ok := found[id]
		if !ok {
			return nil, &object.DoesNotExistError{Type: typ, Locator: object.WithID(id)}
		}
		out = append(out, state.ObjectStates{ObjectID: id, Names: names})
	}
	return out, nil
}

// window renders a CTE named win holding the matched entry (id, type,
// crdate) and both limits of iv resolved to timestamps. A NULL upper_limit
// means infinity when the upper limit is unbounded; a NULL in any other case
// is an unresolved history marker.
func (q *query) window(typ object.Type, loc object.Locator, iv history.Interval) (string, bool) {
	cond, ok := q.locate(typ, loc)
	if !ok {
		return "", false
	}
	return `
		WITH obj AS (
			SELECT obr.id, obr.type, obr.crdate
			FROM object_registry obr
			WHERE ` + cond + `
		), win AS (
			SELECT obj.id, obj.type, obj.crdate,
				` + q.limit(iv.Lower, "obj.crdate") + ` AS lower_limit,
				` + q.limit(iv.Upper, "NULL::timestamp") + ` AS upper_limit
			FROM obj
		)`, true
}

func (q *query) limit(l history.Limit, unbounded string) string {
	switch l.Kind() {
	case history.Timestamp:
		return q.bind(l.Time().UTC()) + "::timestamp"
	case history.HistoryIDMarker:
		if l.HistoryID() > math.MaxInt64 {
			return "NULL::timestamp"
		}
		return `(SELECT h.valid_from FROM history h JOIN object_history oh ON oh.historyid = h.id
					WHERE h.id = ` + q.bind(int64(l.HistoryID())) + ` AND oh.id = obj.id)`
	case history.HistoryUUIDMarker:
		return `(SELECT h.valid_from FROM history h JOIN object_history oh ON oh.historyid = h.id
					WHERE h.uuid = ` + q.bind(l.HistoryUUID()) + ` AND oh.id = obj.id)`
	}
	return unbounded
}

// resolved holds the window columns common to every history row.
type resolved struct {
	id      int64
	crdate  time.Time
	lower   sql.NullTime
	upper   sql.NullTime
	scanned bool
}

func (r *resolved) merge(id int64, crdate time.Time, lower, upper sql.NullTime) error {
	if r.scanned && r.id != id {
		return sentinel.ErrInconsistent
	}
	*r = resolved{id: id, crdate: crdate, lower: lower, upper: upper, scanned: true}
	return nil
}

// limits checks that both markers resolved and returns the window bounds.
func (r *resolved) limits(typ object.Type, iv history.Interval) (lower time.Time, upper *time.Time, err error) {
	if !r.lower.Valid {
		return time.Time{}, nil, &object.InvalidHistoryIntervalError{Type: typ, Reason: "lower limit " + iv.Lower.String() + " does not resolve to a history record of the object"}
	}
	if r.upper.Valid {
		u := r.upper.Time.UTC()
		upper = &u
	} else if iv.Upper.Kind() != history.Unbounded {
		return time.Time{}, nil, &object.InvalidHistoryIntervalError{Type: typ, Reason: "upper limit " + iv.Upper.String() + " does not resolve to a history record of the object"}
	}
	return r.lower.Time.UTC(), upper, nil
}

// StateIntervals resolves iv for the entry matched by loc and returns every
// state interval overlapping it, in one statement.
func (s *PostgresStore) StateIntervals(ctx context.Context, typ object.Type, loc object.Locator, iv history.Interval) (state.Window, error) {
	if err := iv.Validate(); err != nil {
		return state.Window{}, &object.InvalidHistoryIntervalError{Type: typ, Reason: err.Error()}
	}
	var q query
	cte, ok := q.window(typ, loc, iv)
	if !ok {
		return state.Window{}, &object.DoesNotExistError{Type: typ, Locator: loc}
	}
	stmt := cte + `
		SELECT win.id, win.crdate, win.lower_limit, win.upper_limit,
			st.name, st.valid_from, st.valid_to, st.valid_from <= win.lower_limit AS presents_on_begin
		FROM win
		LEFT JOIN LATERAL (
			SELECT os.id, eos.name, os.valid_from, os.valid_to
			FROM object_state os
			JOIN enum_object_states eos ON eos.id = os.state_id AND win.type = ANY(eos.types)
			WHERE os.object_id = win.id
				AND os.valid_from <= COALESCE(win.upper_limit, 'infinity'::timestamp)
				AND (os.valid_to IS NULL OR os.valid_to > win.lower_limit)
		) st ON TRUE
		ORDER BY st.valid_from, st.id`

	rows, err := tx.QuerierFrom(ctx, s.db).QueryContext(ctx, stmt, q.args...)
	if err != nil {
		return state.Window{}, mapError("query state intervals", err)
	}
	defer rows.Close()

	var (
		win       resolved
		intervals []state.Interval
	)
	for rows.Next() {
		var (
			id              int64
			crdate          time.Time
			lower, upper    sql.NullTime
			name            sql.NullString
			from, to        sql.NullTime
			presentsOnBegin sql.NullBool
		)
		if err := rows.Scan(&id, &crdate, &lower, &upper, &name, &from, &to, &presentsOnBegin); err != nil {
			return state.Window{}, fmt.Errorf("scan state interval: %w", err)
		}
		if err := win.merge(id, crdate, lower, upper); err != nil {
			return state.Window{}, fmt.Errorf("%s %s: %w", typ, loc, err)
		}
		if !name.Valid || !from.Valid {
			continue
		}
		interval := state.Interval{
			Name:            name.String,
			ValidFrom:       from.Time.UTC(),
			PresentsOnBegin: presentsOnBegin.Valid && presentsOnBegin.Bool,
		}
		if to.Valid {
			t := to.Time.UTC()
			interval.ValidTo = &t
		}
		intervals = append(intervals, interval)
	}
	if err := rows.Err(); err != nil {
		return state.Window{}, mapError("iterate state intervals", err)
	}
	if !win.scanned {
		return state.Window{}, &object.DoesNotExistError{Type: typ, Locator: loc}
	}

	lower, upper, err := win.limits(typ, iv)
	if err != nil {
		return state.Window{}, err
	}
	return state.Window{
		ObjectType: typ,
		CreatedAt:  win.crdate.UTC(),
		Lower:      lower,
		Upper:      upper,
		Intervals:  intervals,
	}, nil
}

// HistoryRecords resolves iv for the entry matched by loc and returns the
// entry's history records overlapping it as a timeline. The first record is
// clamped to the start of the window.
func (s *PostgresStore) HistoryRecords(ctx context.Context, typ object.Type, loc object.Locator, iv history.Interval) (history.Timeline[history.Ref], error) {
	if err := iv.Validate(); err != nil {
		return history.Timeline[history.Ref]{}, &object.InvalidHistoryIntervalError{Type: typ, Reason: err.Error()}
	}
	var q query
	cte, ok := q.window(typ, loc, iv)
	if !ok {
		return history.Timeline[history.Ref]{}, &object.DoesNotExistError{Type: typ, Locator: loc}
	}
	stmt := cte + `
		SELECT win.id, win.crdate, win.lower_limit, win.upper_limit,
			hr.id, hr.uuid, hr.valid_from
		FROM win
		LEFT JOIN LATERAL (
			SELECT h.id, h.uuid, h.valid_from
			FROM object_history oh
			JOIN history h ON h.id = oh.historyid
			WHERE oh.id = win.id
				AND h.valid_from < COALESCE(win.upper_limit, 'infinity'::timestamp)
				AND (h.valid_to IS NULL OR h.valid_to > win.lower_limit)
		) hr ON TRUE
		ORDER BY hr.valid_from, hr.id`

	rows, err := tx.QuerierFrom(ctx, s.db).QueryContext(ctx, stmt, q.args...)
	if err != nil {
		return history.Timeline[history.Ref]{}, mapError("query history records", err)
	}
	defer rows.Close()

	type entry struct {
		ref  history.Ref
		from time.Time
	}
	var (
		win     resolved
		entries []entry
	)
	for rows.Next() {
		var (
			id           int64
			crdate       time.Time
			lower, upper sql.NullTime
			historyID    sql.NullInt64
			historyUUID  uuid.NullUUID
			from         sql.NullTime
		)
		if err := rows.Scan(&id, &crdate, &lower, &upper, &historyID, &historyUUID, &from); err != nil {
			return history.Timeline[history.Ref]{}, fmt.Errorf("scan history record: %w", err)
		}
		if err := win.merge(id, crdate, lower, upper); err != nil {
			return history.Timeline[history.Ref]{}, fmt.Errorf("%s %s: %w", typ, loc, err)
		}
		if !historyID.Valid || !from.Valid {
			continue
		}
		entries = append(entries, entry{
			ref:  history.Ref{HistoryID: uint64(historyID.Int64), UUID: historyUUID.UUID},
			from: from.Time.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return history.Timeline[history.Ref]{}, mapError("iterate history records", err)
	}
	if !win.scanned {
		return history.Timeline[history.Ref]{}, &object.DoesNotExistError{Type: typ, Locator: loc}
	}

	lower, upper, err := win.limits(typ, iv)
	if err != nil {
		return history.Timeline[history.Ref]{}, err
	}
	window := state.Window{ObjectType: typ, CreatedAt: win.crdate.UTC(), Lower: lower, Upper: upper}
	if err := window.Validate(); err != nil {
		return history.Timeline[history.Ref]{}, err
	}

	start := window.Start()
	tl := history.Timeline[history.Ref]{ValidTo: upper}
	for _, e := range entries {
		from := e.from
		if from.Before(start) {
			from = start
		}
		if n := len(tl.Records); n > 0 && !tl.Records[n-1].ValidFrom.Before(from) {
			tl.Records[n-1] = history.Record[history.Ref]{ValidFrom: tl.Records[n-1].ValidFrom, Value: e.ref}
			continue
		}
		tl.Records = append(tl.Records, history.Record[history.Ref]{ValidFrom: from, Value: e.ref})
	}
	return tl, nil
}

// StateDescriptors returns the state flags the database defines for typ, in
// id order.
func (s *PostgresStore) StateDescriptors(ctx context.Context, typ object.Type) ([]fs.Descriptor, error) {
	rows, err := tx.QuerierFrom(ctx, s.db).QueryContext(ctx, `
		SELECT eos.name, eos.manual, eos.external
		FROM enum_object_states eos
		WHERE (SELECT id FROM enum_object_type WHERE name = $1) = ANY(eos.types)
		ORDER BY eos.id
	`, string(typ))
	if err != nil {
		return nil, mapError("query state descriptors", err)
	}
	defer rows.Close()

	var out []fs.Descriptor
	for rows.Next() {
		var (
			name             string
			manual, external bool
		)
		if err := rows.Scan(&name, &manual, &external); err != nil {
			return nil, fmt.Errorf("scan state descriptor: %w", err)
		}
		d := fs.Descriptor{Name: name, Manipulation: fs.Automatic, Visibility: fs.Internal}
		if manual {
			d.Manipulation = fs.Manual
		}
		if external {
			d.Visibility = fs.External
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate state descriptors", err)
	}
	return out, nil
}

// Postgres error classes the store tells apart.
const (
	pgQueryCanceled        = "57014"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgConnectionClass      = "08"
)

func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgQueryCanceled:
			return fmt.Errorf("%s: %w: %w", op, context.DeadlineExceeded, err)
		case pgErr.Code == pgSerializationFailure, pgErr.Code == pgDeadlockDetected, pgErr.Code == pgLockNotAvailable:
			return fmt.Errorf("%s: %w: %w", op, sentinel.ErrConflict, err)
		case strings.HasPrefix(pgErr.Code, pgConnectionClass):
			return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
