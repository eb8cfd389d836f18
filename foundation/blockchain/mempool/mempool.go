// Package mempool maintains the ordered pool of transactions waiting to be
// mined into a block.
package mempool

import (
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Mempool represents the ordered set of pending transactions.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds the transaction to the end of the pool.
func (mp *Mempool) Append(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// RemoveIncluded removes the pending transactions that are carried by the
// specified set. Each carried transaction removes at most one pending
// transaction that is equal to it. The number removed is returned.
func (mp *Mempool) RemoveIncluded(trans []database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var removed int
	for _, tx := range trans {
		for i, pending := range mp.pool {
			if pending.Equal(tx) {
				mp.pool = append(mp.pool[:i:i], mp.pool[i+1:]...)
				removed++
				break
			}
		}
	}

	return removed
}

// Replace swaps the contents of the pool for the specified transactions.
func (mp *Mempool) Replace(trans []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make([]database.Tx, len(trans))
	copy(mp.pool, trans)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}

// Copy returns a copy of the pending transactions in order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}
