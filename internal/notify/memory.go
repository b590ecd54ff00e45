package notify

import (
	"context"
	"sync"
)

// MemoryBackend is an in-memory Backend for tests. It records every
// enqueue in order and can be told to fail specific identifiers.
type MemoryBackend struct {
	mu       sync.Mutex
	pending  map[string]Request
	enqueued []Request
	failIDs  map[string]error
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		pending: make(map[string]Request),
		failIDs: make(map[string]error),
	}
}

// FailID makes future enqueues of id return err. A nil err clears the
// failure.
func (b *MemoryBackend) FailID(id string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failIDs, id)
		return
	}
	b.failIDs[id] = err
}

func (b *MemoryBackend) Enqueue(_ context.Context, req Request) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err, ok := b.failIDs[req.ID]; ok {
		return err
	}
	b.pending[req.ID] = req
	b.enqueued = append(b.enqueued, req)
	return nil
}

func (b *MemoryBackend) Cancel(_ context.Context, ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		delete(b.pending, id)
	}
	return nil
}

func (b *MemoryBackend) ListPending(context.Context) (map[string]struct{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]struct{}, len(b.pending))
	for id := range b.pending {
		out[id] = struct{}{}
	}
	return out, nil
}

// Pending returns the currently installed request for id.
func (b *MemoryBackend) Pending(id string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.pending[id]
	return req, ok
}

// PendingCount returns how many requests are installed.
func (b *MemoryBackend) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Enqueued returns every enqueue ever accepted, in order.
func (b *MemoryBackend) Enqueued() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.enqueued))
	copy(out, b.enqueued)
	return out
}
