// README: In-process session ledger for tests and single-node development.
package payment

import (
	"context"
	"sync"
	"time"

	"snabbdeal/internal/types"
)

// MemoryLedger implements Ledger with a mutex-guarded map.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[types.ID]SessionRecord
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[types.ID]SessionRecord)}
}

func (l *MemoryLedger) Upsert(_ context.Context, orderID types.ID, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[orderID] = SessionRecord{
		OrderID:   orderID,
		SessionID: sessionID,
		CreatedAt: time.Now(),
	}
	return nil
}

func (l *MemoryLedger) Find(_ context.Context, orderID types.ID) (SessionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[orderID]
	if !ok {
		return SessionRecord{}, ErrNotFound
	}
	return rec, nil
}

// Len reports the number of live records; used by tests to assert the
// at-most-one-per-order invariant.
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
