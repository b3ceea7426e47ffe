package blockchain

// BalanceOf replays every committed transaction in chain order. Staged transactions are not
// counted, and the result can be negative.
func (bc *Blockchain) BalanceOf(address string) int64 {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	var balance int64
	for _, b := range bc.chain {
		for _, tx := range b.Transactions {
			if tx.Sender == address {
				balance -= tx.Amount
			}
			if tx.Recipient == address {
				balance += tx.Amount
			}
		}
	}
	return balance
}

// Balances derives the balance of every address that appears in the chain.
func (bc *Blockchain) Balances() map[string]int64 {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	balances := make(map[string]int64)
	for _, b := range bc.chain {
		for _, tx := range b.Transactions {
			balances[tx.Sender] -= tx.Amount
			balances[tx.Recipient] += tx.Amount
		}
	}
	return balances
}
