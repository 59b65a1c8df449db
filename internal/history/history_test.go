package history

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitVariants(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.FixedZone("CET", 3600))

	t.Run("zero value is no limit", func(t *testing.T) {
		assert.Equal(t, Unbounded, Limit{}.Kind())
		assert.Equal(t, NoLimit(), Limit{})
	})

	t.Run("timestamps are UTC at store precision", func(t *testing.T) {
		l := At(ts)
		assert.Equal(t, Timestamp, l.Kind())
		assert.Equal(t, time.UTC, l.Time().Location())
		assert.Equal(t, 123456000, l.Time().Nanosecond())
		assert.True(t, l.Time().Equal(ts.Truncate(time.Microsecond)))
	})

	t.Run("markers", func(t *testing.T) {
		assert.Equal(t, uint64(7), HistoryID(7).HistoryID())
		id := uuid.New()
		assert.Equal(t, id, HistoryUUID(id).HistoryUUID())
		assert.Equal(t, HistoryUUIDMarker, HistoryUUID(id).Kind())
	})
}

func TestParseLimitRoundTrip(t *testing.T) {
	limits := []Limit{
		NoLimit(),
		At(time.Date(2023, 12, 31, 23, 59, 59, 999999000, time.UTC)),
		HistoryID(1234),
		HistoryUUID(uuid.MustParse("2f1d4b0e-8f44-4f55-9c53-0d57d4f0c001")),
	}
	for _, want := range limits {
		got, err := ParseLimit(want.String())
		require.NoError(t, err, want.String())
		assert.Equal(t, want.Kind(), got.Kind())
		assert.Equal(t, want.String(), got.String())
	}

	for _, bad := range []string{"yesterday", "history:x", "history-uuid:nope", "history:-1"} {
		_, err := ParseLimit(bad)
		assert.Error(t, err, bad)
	}
}

func TestIntervalValidate(t *testing.T) {
	early := At(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	late := At(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, Between(early, late).Validate())
	assert.NoError(t, Between(early, early).Validate())
	assert.NoError(t, Whole().Validate())
	assert.NoError(t, Between(HistoryID(9), early).Validate())
	assert.Error(t, Between(late, early).Validate())
}

func TestTimelineAt(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := t0.Add(3 * time.Hour)
	tl := Timeline[string]{
		Records: []Record[string]{
			{ValidFrom: t0, Value: "a"},
			{ValidFrom: t0.Add(time.Hour), Value: "b"},
		},
		ValidTo: &end,
	}

	_, ok := tl.At(t0.Add(-time.Second))
	assert.False(t, ok)

	v, ok := tl.At(t0)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	v, _ = tl.At(t0.Add(time.Hour))
	assert.Equal(t, "b", v)

	v, _ = tl.At(end)
	assert.Equal(t, "b", v)

	_, ok = tl.At(end.Add(time.Second))
	assert.False(t, ok)

	upper := Map(tl, func(s string) int { return len(s) })
	assert.Equal(t, 2, upper.Len())
	assert.Same(t, tl.ValidTo, upper.ValidTo)
}
