package pool

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgnl/plex-postgresql/internal/errs"
)

func fakeConnector(fail bool) Connector {
	return func(ctx context.Context) (*pgx.Conn, error) {
		if fail {
			return nil, assert.AnError
		}
		return &pgx.Conn{}, nil
	}
}

func TestAcquireClaimsFreeSlot(t *testing.T) {
	p := New(2, fakeConnector(false))

	lease, err := p.Acquire(context.Background(), 42, nil)
	require.NoError(t, err)
	assert.True(t, lease.Valid())
	assert.Equal(t, StateReady, p.slots[lease.slotIndex].getState())
}

func TestAcquireExhaustsWhenAllSlotsBusy(t *testing.T) {
	p := New(1, fakeConnector(false))

	_, err := p.Acquire(context.Background(), 1, nil)
	require.NoError(t, err)

	_, err = p.Acquire(context.Background(), 2, nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindResourcePressure, errs.KindOf(err))
}

func TestReleaseFreesSlotForAnotherOwner(t *testing.T) {
	p := New(1, fakeConnector(false))

	lease, err := p.Acquire(context.Background(), 1, nil)
	require.NoError(t, err)
	lease.Release()

	lease2, err := p.Acquire(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, lease.slotIndex, lease2.slotIndex)
	assert.False(t, lease.Valid())
}

func TestHintFastPathSkipsScan(t *testing.T) {
	p := New(4, fakeConnector(false))

	hint := &Hint{}
	lease, err := p.Acquire(context.Background(), 7, hint)
	require.NoError(t, err)
	require.True(t, hint.valid.Load())

	lease2, err := p.Acquire(context.Background(), 7, hint)
	require.NoError(t, err)
	assert.Equal(t, lease.slotIndex, lease2.slotIndex)
}

func TestMarkUnhealthyForcesReconnectOnNextAcquire(t *testing.T) {
	p := New(1, fakeConnector(false))

	lease, err := p.Acquire(context.Background(), 1, nil)
	require.NoError(t, err)
	firstGen := lease.generation
	lease.MarkUnhealthy()
	lease.Release()

	lease2, err := p.Acquire(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.Greater(t, lease2.generation, firstGen)
}

func TestAcquireSurfacesConnectError(t *testing.T) {
	p := New(1, fakeConnector(true))

	_, err := p.Acquire(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindSession, errs.KindOf(err))
}

func TestLeaseChangesAndLastInsertID(t *testing.T) {
	p := New(1, fakeConnector(false))
	lease, err := p.Acquire(context.Background(), 1, nil)
	require.NoError(t, err)

	lease.SetChanges(3)
	lease.SetLastInsertID(99)
	assert.EqualValues(t, 3, lease.Changes())
	assert.EqualValues(t, 99, lease.LastInsertID())

	lease.SetError(assert.AnError, "57014")
	err2, code := lease.LastError()
	assert.Equal(t, assert.AnError, err2)
	assert.Equal(t, "57014", code)
}
