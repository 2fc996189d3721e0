// AngelaMos | 2026
// service_test.go

package entitlement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/arcana-vip/internal/calendar"
	"github.com/carterperez-dev/arcana-vip/internal/core"
)

type fakeRepo struct {
	mu      sync.Mutex
	records map[string]Record
	err     error
	reads   int
	writes  int
}

func newFakeRepo(records ...Record) *fakeRepo {
	f := &fakeRepo{records: make(map[string]Record)}
	for _, r := range records {
		f.records[r.UserID] = r
	}
	return f
}

func (f *fakeRepo) Get(_ context.Context, userID string) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++

	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[userID]
	if !ok {
		return nil, fmt.Errorf("get entitlement: %w", core.ErrNotFound)
	}
	return &rec, nil
}

func (f *fakeRepo) Upsert(_ context.Context, rec *Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++

	if f.err != nil {
		return f.err
	}
	f.records[rec.UserID] = *rec
	return nil
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListParams,
	_ time.Time,
) ([]Record, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, len(out), f.err
}

func (f *fakeRepo) Counts(_ context.Context, now time.Time) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	active := 0
	for _, r := range f.records {
		if r.ActiveAt(now) {
			active++
		}
	}
	return active, len(f.records), f.err
}

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func newTestService(repo Repository) *Service {
	return NewService(repo, calendar.FixedClock{At: now}, nil)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		record     *Record
		wantAccess bool
		wantReason string
	}{
		{
			name:       "permanent vip",
			record:     &Record{UserID: "u1", IsVip: true},
			wantAccess: true,
			wantReason: ReasonActive,
		},
		{
			name:       "expires in the future",
			record:     &Record{UserID: "u1", IsVip: true, ExpiresAt: at(now.Add(time.Second))},
			wantAccess: true,
			wantReason: ReasonActive,
		},
		{
			name:       "expires exactly now",
			record:     &Record{UserID: "u1", IsVip: true, ExpiresAt: at(now)},
			wantAccess: false,
			wantReason: ReasonExpired,
		},
		{
			name:       "expired yesterday",
			record:     &Record{UserID: "u1", IsVip: true, ExpiresAt: at(now.Add(-24 * time.Hour))},
			wantAccess: false,
			wantReason: ReasonExpired,
		},
		{
			name:       "flag off ignores future expiry",
			record:     &Record{UserID: "u1", IsVip: false, ExpiresAt: at(now.Add(24 * time.Hour))},
			wantAccess: false,
			wantReason: ReasonNotVip,
		},
		{
			name:       "flag off without expiry",
			record:     &Record{UserID: "u1", IsVip: false},
			wantAccess: false,
			wantReason: ReasonNotVip,
		},
		{
			name:       "no record",
			wantAccess: false,
			wantReason: ReasonNotVip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			if tt.record != nil {
				repo = newFakeRepo(*tt.record)
			}
			svc := newTestService(repo)

			d := svc.Evaluate(context.Background(), "u1")
			assert.Equal(t, tt.wantAccess, d.Granted)
			assert.Equal(t, tt.wantReason, d.Reason)
			assert.Equal(t, tt.wantAccess, svc.IsEntitled(context.Background(), "u1"))
		})
	}
}

func TestEvaluate_StoreFailureDenies(t *testing.T) {
	repo := newFakeRepo(Record{UserID: "u1", IsVip: true})
	repo.err = fmt.Errorf("get entitlement: %w", core.ErrStore)
	svc := newTestService(repo)

	d := svc.Evaluate(context.Background(), "u1")
	assert.False(t, d.Granted)
	assert.Equal(t, ReasonLookupFailed, d.Reason)

	granted, reason := svc.Authorize(context.Background(), "u1")
	assert.False(t, granted)
	assert.Equal(t, ReasonNotVip, reason, "failure detail is not exposed")
}

func TestEvaluate_EmptyUserSkipsStore(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	assert.False(t, svc.IsEntitled(context.Background(), "  "))
	assert.Zero(t, repo.reads)
}

func TestEvaluate_NoCaching(t *testing.T) {
	repo := newFakeRepo(Record{UserID: "u1", IsVip: true})
	svc := newTestService(repo)
	ctx := context.Background()

	require.True(t, svc.IsEntitled(ctx, "u1"))
	require.True(t, svc.SetEntitlement(ctx, "u1", false, nil))
	assert.False(t, svc.IsEntitled(ctx, "u1"), "revocation applies to the next check")
	assert.Equal(t, 2, repo.reads)
}

func TestSetThenCheck(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	require.True(t, svc.SetEntitlement(ctx, "u1", true, at(now.Add(time.Hour))))
	assert.True(t, svc.IsEntitled(ctx, "u1"))

	require.True(t, svc.SetEntitlement(ctx, "u2", true, nil))
	assert.True(t, svc.IsEntitled(ctx, "u2"))
}

func TestGrant(t *testing.T) {
	t.Run("replaces the whole record", func(t *testing.T) {
		repo := newFakeRepo(Record{UserID: "u1", IsVip: true, ExpiresAt: at(now.Add(time.Hour))})
		svc := newTestService(repo)

		rec, err := svc.Grant(context.Background(), "u1", true, nil)
		require.NoError(t, err)
		assert.Nil(t, rec.ExpiresAt)
		stored := repo.records["u1"]
		assert.True(t, stored.IsPermanent())
	})

	t.Run("stores expiry in UTC", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)

		zone := time.FixedZone("ICT", 7*60*60)
		local := time.Date(2024, 7, 1, 0, 0, 0, 0, zone)

		rec, err := svc.Grant(context.Background(), "u1", true, &local)
		require.NoError(t, err)
		require.NotNil(t, rec.ExpiresAt)
		assert.Equal(t, time.UTC, rec.ExpiresAt.Location())
		assert.True(t, rec.ExpiresAt.Equal(local))
	})

	t.Run("empty user id", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)

		_, err := svc.Grant(context.Background(), "", true, nil)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		assert.Zero(t, repo.writes)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := newFakeRepo()
		repo.err = errors.New("connection reset")
		svc := newTestService(repo)

		_, err := svc.Grant(context.Background(), "u1", true, nil)
		assert.Error(t, err)
		assert.False(t, svc.SetEntitlement(context.Background(), "u1", true, nil))
	})
}

func TestStatus(t *testing.T) {
	repo := newFakeRepo(
		Record{UserID: "active", IsVip: true, ExpiresAt: at(now.Add(time.Hour))},
		Record{UserID: "lapsed", IsVip: true, ExpiresAt: at(now.Add(-time.Hour))},
	)
	svc := newTestService(repo)
	ctx := context.Background()

	st, err := svc.Status(ctx, "active")
	require.NoError(t, err)
	assert.True(t, st.IsVip)

	st, err = svc.Status(ctx, "lapsed")
	require.NoError(t, err)
	assert.False(t, st.IsVip, "stored flag alone does not make a vip")
	assert.NotNil(t, st.ExpiresAt)

	st, err = svc.Status(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, StatusResponse{}, st)
}

func TestCounts(t *testing.T) {
	repo := newFakeRepo(
		Record{UserID: "a", IsVip: true},
		Record{UserID: "b", IsVip: true, ExpiresAt: at(now)},
		Record{UserID: "c", IsVip: false},
	)
	svc := newTestService(repo)

	active, total, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, active)
	assert.Equal(t, 3, total)
}
