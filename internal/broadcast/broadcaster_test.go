package broadcast

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmilosev/evalgate/internal/domain"
)

func record() domain.EvalRecord {
	return domain.EvalRecord{ID: uuid.New(), Status: domain.StatusCompleted}
}

func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	first := b.Subscribe()
	second := b.Subscribe()
	defer first.Close()
	defer second.Close()

	published := record()
	b.Publish(published)

	assert.Equal(t, published.ID, (<-first.C).ID)
	assert.Equal(t, published.ID, (<-second.C).ID)
}

func TestBroadcaster_DropsWhenBufferFull(t *testing.T) {
	b := New(WithBuffer(1))
	defer b.Close()

	slow := b.Subscribe()
	defer slow.Close()

	kept := record()
	b.Publish(kept)
	b.Publish(record())

	// Only the first event fits; the second is dropped, not queued.
	assert.Equal(t, kept.ID, (<-slow.C).ID)
	select {
	case _, ok := <-slow.C:
		assert.False(t, ok, "expected no further events")
	default:
	}
}

func TestBroadcaster_UnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	sub := b.Subscribe()
	sub.Close()
	sub.Close()

	b.Publish(record())

	_, ok := <-sub.C
	assert.False(t, ok)
}

func TestBroadcaster_CloseClosesChannels(t *testing.T) {
	b := New()
	sub := b.Subscribe()

	b.Close()
	b.Close()

	_, ok := <-sub.C
	require.False(t, ok)

	// Subscribing after close yields an already-closed feed.
	late := b.Subscribe()
	_, ok = <-late.C
	assert.False(t, ok)
}
