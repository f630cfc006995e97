package main

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"runtime/debug"
	"strconv"
	"sync"
)

// ErrQueueClosed is returned by Enqueue after Stop.
var ErrQueueClosed = errors.New("dispatcher queue is closed")

// UpdateHandler processes one update.
type UpdateHandler func(ctx context.Context, u InboundUpdate)

// PanicHandler is told about a recovered panic, after it has been logged.
type PanicHandler func(ctx context.Context, u InboundUpdate, recovered interface{})

// Dispatcher fans updates out to workers sharded by chat id, so updates of
// one conversation are handled by one goroutine in arrival order while
// different conversations proceed in parallel.
type Dispatcher struct {
	shards  []chan InboundUpdate
	handle  UpdateHandler
	onPanic PanicHandler

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewDispatcher(workers, queueSize int, handle UpdateHandler, onPanic PanicHandler) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	shards := make([]chan InboundUpdate, workers)
	for i := range shards {
		shards[i] = make(chan InboundUpdate, queueSize)
	}
	return &Dispatcher{shards: shards, handle: handle, onPanic: onPanic}
}

// Start launches one goroutine per shard. Workers run until Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	for i, ch := range d.shards {
		d.wg.Add(1)
		go func(id int, ch <-chan InboundUpdate) {
			defer d.wg.Done()
			for u := range ch {
				d.process(ctx, u)
			}
			InfoLogger.Printf("Dispatcher worker %d stopped", id)
		}(i, ch)
	}
}

// Enqueue places u on the shard owning its chat id.
func (d *Dispatcher) Enqueue(ctx context.Context, u InboundUpdate) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}

	select {
	case d.shards[d.shardFor(u.ChatID)] <- u:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue update %d: %w", u.UpdateID, ctx.Err())
	}
}

// Stop closes the queue, lets workers drain what is buffered and waits.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.shards {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) shardFor(chatID int64) int {
	h := fnv.New32a()
	h.Write([]byte(strconv.FormatInt(chatID, 10)))
	return int(h.Sum32() % uint32(len(d.shards)))
}

// process runs the handler with a recovery boundary, so a failing update
// never stops the worker serving other conversations.
func (d *Dispatcher) process(ctx context.Context, u InboundUpdate) {
	defer func() {
		if r := recover(); r != nil {
			ErrorLogger.Printf("Panic while handling update %d (%s) in chat %d: %v\n%s",
				u.UpdateID, u.Kind, u.ChatID, r, debug.Stack())
			if d.onPanic != nil {
				d.onPanic(ctx, u, r)
			}
		}
	}()
	d.handle(ctx, u)
}
