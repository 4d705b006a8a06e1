package waitercall_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapmenu/tapmenu/pkg/waitercall"
)

type fixture struct {
	svc      *waitercall.Service
	tables   *waitercall.MemoryTableStore
	requests *waitercall.MemoryRequestStore
	table    waitercall.Table
	now      *time.Time
}

func newFixture(t *testing.T, active bool) *fixture {
	t.Helper()

	table := waitercall.Table{
		ID:     uuid.New(),
		OrgID:  uuid.New(),
		Label:  "T1",
		Active: active,
	}
	tables := waitercall.NewMemoryTableStore(table)
	requests := waitercall.NewMemoryRequestStore()

	now := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	gate, err := waitercall.NewGate(waitercall.NewMemoryAdmissionStore(), testConfig(),
		waitercall.WithNow(clock))
	require.NoError(t, err)

	return &fixture{
		svc: waitercall.NewService(tables, requests, gate,
			waitercall.WithServiceNow(clock)),
		tables:   tables,
		requests: requests,
		table:    table,
		now:      &now,
	}
}

func TestService_Call(t *testing.T) {
	t.Parallel()

	t.Run("admitted call creates a request and flags the table", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)

		result, err := f.svc.Call(context.Background(), f.table.ID)

		require.NoError(t, err)
		assert.Equal(t, waitercall.OutcomeAdmitted, result.Outcome)
		assert.NotEqual(t, uuid.Nil, result.RequestID)
		assert.True(t, result.StatusMarked)

		reqs := f.requests.All()
		require.Len(t, reqs, 1)
		assert.Equal(t, f.table.ID, reqs[0].TableID)
		assert.Equal(t, f.table.OrgID, reqs[0].OrgID)

		stored, err := f.tables.Get(context.Background(), f.table.ID)
		require.NoError(t, err)
		assert.True(t, stored.NeedsService)
	})

	t.Run("unknown table", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)

		_, err := f.svc.Call(context.Background(), uuid.New())

		assert.ErrorIs(t, err, waitercall.ErrTableNotFound)
	})

	t.Run("inactive table is rejected before the gate", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, false)

		result, err := f.svc.Call(context.Background(), f.table.ID)

		require.NoError(t, err)
		assert.Equal(t, waitercall.OutcomeTableInactive, result.Outcome)
		assert.Empty(t, f.requests.All())

		// Activating the table immediately after must admit: the
		// inactive rejection did not consume the window.
		activated := f.table
		activated.Active = true
		f.tables.Put(activated)

		result, err = f.svc.Call(context.Background(), f.table.ID)
		require.NoError(t, err)
		assert.Equal(t, waitercall.OutcomeAdmitted, result.Outcome)
	})

	t.Run("second call within the window is rate limited", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)

		first, err := f.svc.Call(context.Background(), f.table.ID)
		require.NoError(t, err)
		require.Equal(t, waitercall.OutcomeAdmitted, first.Outcome)

		*f.now = f.now.Add(10 * time.Second)

		second, err := f.svc.Call(context.Background(), f.table.ID)
		require.NoError(t, err)
		assert.Equal(t, waitercall.OutcomeRateLimited, second.Outcome)
		assert.Equal(t, 20*time.Second, second.RetryAfter)
		assert.Len(t, f.requests.All(), 1)
	})

	t.Run("request store failure fails the call", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		storeErr := errors.New("insert failed")
		f.requests.FailCreateWith(storeErr)

		_, err := f.svc.Call(context.Background(), f.table.ID)

		require.Error(t, err)
		assert.ErrorIs(t, err, waitercall.ErrFailedToCreateRequest)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("mark failure is best-effort, call still succeeds", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, true)
		f.tables.FailMarkWith(errors.New("update timed out"))

		result, err := f.svc.Call(context.Background(), f.table.ID)

		require.NoError(t, err)
		assert.Equal(t, waitercall.OutcomeAdmitted, result.Outcome)
		assert.False(t, result.StatusMarked)
		assert.Len(t, f.requests.All(), 1)
	})
}
