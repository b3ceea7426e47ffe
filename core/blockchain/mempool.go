package blockchain

import (
	"sync"
)

// Mempool stages transactions for the next block. It never validates what it is given.
type Mempool struct {
	transactions []Transaction
	mu           sync.Mutex
}

func NewMempool() *Mempool {
	return &Mempool{}
}

func (m *Mempool) Add(tx Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transactions = append(m.transactions, tx)
	log.Debugf("Transaction added to the mempool: %s -> %s (%d)", tx.Sender, tx.Recipient, tx.Amount)
}

// Drain empties the pool and returns its prior contents in insertion order.
// The result is never nil.
func (m *Mempool) Drain() []Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := m.transactions
	if txs == nil {
		txs = []Transaction{}
	}
	m.transactions = nil
	return txs
}

func (m *Mempool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions)
}

// Pending returns a copy of the staged transactions.
func (m *Mempool) Pending() []Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := make([]Transaction, len(m.transactions))
	copy(txs, m.transactions)
	return txs
}

// PendingOutflow sums the amounts sender has staged but not yet committed.
func (m *Mempool) PendingOutflow(sender string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, tx := range m.transactions {
		if tx.Sender == sender {
			total += tx.Amount
		}
	}
	return total
}
