package repository

import (
	"testing"
	"time"

	"github.com/GoPolymarket/walletgate/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdemRecordRoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	raw, err := encodeIdemRecord(middleware.IdempotencyRecord{
		Status:    201,
		Body:      []byte(`{"ok":true}`),
		CreatedAt: at,
	})
	require.NoError(t, err)

	rec, err := decodeIdemRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, 201, rec.Status)
	assert.Equal(t, `{"ok":true}`, string(rec.Body))
	assert.Equal(t, at, rec.CreatedAt)
	assert.False(t, rec.Processing)

	_, err = decodeIdemRecord([]byte("garbage"))
	assert.Error(t, err)
}

func TestUsageKeyIsPerDay(t *testing.T) {
	r := NewRedisUsageRepo(nil)
	day := time.Date(2024, 5, 1, 23, 59, 0, 0, time.FixedZone("X", -3600))
	assert.Equal(t, "walletgate:usage:pk:2024-05-02", r.makeKey("pk", day))
}

func TestBuildAuditListQuery(t *testing.T) {
	q, args := buildAuditListQuery("", 10, nil, nil)
	assert.NotContains(t, q, "WHERE")
	assert.Contains(t, q, "LIMIT $1")
	assert.Equal(t, []interface{}{10}, args)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	q, args = buildAuditListQuery("caller", 5, &from, &to)
	assert.Contains(t, q, "WHERE caller_id = $1 AND created_at >= $2 AND created_at <= $3")
	assert.Contains(t, q, "LIMIT $4")
	assert.Equal(t, []interface{}{"caller", from, to, 5}, args)
}

func TestFilterAuditEntries(t *testing.T) {
	items := []string{
		`{"id":"3","caller_id":"a","created_at":"2024-01-01T03:00:00Z"}`,
		`not json`,
		`{"id":"2","caller_id":"b","created_at":"2024-01-01T02:00:00Z"}`,
		`{"id":"1","caller_id":"a","created_at":"2024-01-01T01:00:00Z"}`,
	}
	got := filterAuditEntries(items, "a", 10, nil, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)

	got = filterAuditEntries(items, "", 1, nil, nil)
	require.Len(t, got, 1)

	from := time.Date(2024, 1, 1, 1, 30, 0, 0, time.UTC)
	got = filterAuditEntries(items, "", 10, &from, nil)
	assert.Len(t, got, 2)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 100, clampLimit(0))
	assert.Equal(t, 100, clampLimit(5000))
	assert.Equal(t, 7, clampLimit(7))
}
