package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PreservesPerConversationOrder(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int64][]int64)

	d := NewDispatcher(4, 16, func(ctx context.Context, u InboundUpdate) {
		mu.Lock()
		seen[u.ChatID] = append(seen[u.ChatID], u.UpdateID)
		mu.Unlock()
	}, nil)
	d.Start(context.Background())

	const perChat = 50
	chats := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	var id int64
	for i := 0; i < perChat; i++ {
		for _, chatID := range chats {
			id++
			require.NoError(t, d.Enqueue(context.Background(), InboundUpdate{UpdateID: id, ChatID: chatID}))
		}
	}
	d.Stop()

	for _, chatID := range chats {
		ids := seen[chatID]
		require.Len(t, ids, perChat)
		for i := 1; i < len(ids); i++ {
			assert.Less(t, ids[i-1], ids[i], "chat %d processed out of order", chatID)
		}
	}
}

func TestDispatcher_SameChatSameShard(t *testing.T) {
	d := NewDispatcher(8, 1, func(context.Context, InboundUpdate) {}, nil)
	for _, chatID := range []int64{-1001234567890, 0, 42, 99999} {
		assert.Equal(t, d.shardFor(chatID), d.shardFor(chatID))
		assert.GreaterOrEqual(t, d.shardFor(chatID), 0)
		assert.Less(t, d.shardFor(chatID), 8)
	}
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	var mu sync.Mutex
	var handled []int64
	var panicked []int64

	d := NewDispatcher(1, 4, func(ctx context.Context, u InboundUpdate) {
		if u.UpdateID == 1 {
			panic("boom")
		}
		mu.Lock()
		handled = append(handled, u.UpdateID)
		mu.Unlock()
	}, func(ctx context.Context, u InboundUpdate, recovered interface{}) {
		mu.Lock()
		panicked = append(panicked, u.UpdateID)
		mu.Unlock()
		assert.Equal(t, "boom", recovered)
	})
	d.Start(context.Background())

	require.NoError(t, d.Enqueue(context.Background(), InboundUpdate{UpdateID: 1, ChatID: 10}))
	require.NoError(t, d.Enqueue(context.Background(), InboundUpdate{UpdateID: 2, ChatID: 10}))
	require.NoError(t, d.Enqueue(context.Background(), InboundUpdate{UpdateID: 3, ChatID: 20}))
	d.Stop()

	assert.Equal(t, []int64{1}, panicked)
	assert.ElementsMatch(t, []int64{2, 3}, handled)
}

func TestDispatcher_EnqueueAfterStop(t *testing.T) {
	d := NewDispatcher(2, 1, func(context.Context, InboundUpdate) {}, nil)
	d.Start(context.Background())
	d.Stop()
	d.Stop() // idempotent

	err := d.Enqueue(context.Background(), InboundUpdate{ChatID: 1})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestDispatcher_EnqueueHonoursContext(t *testing.T) {
	// Not started and unbuffered, so nothing ever drains the shard.
	d := NewDispatcher(1, 0, func(context.Context, InboundUpdate) {}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Enqueue(ctx, InboundUpdate{ChatID: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
