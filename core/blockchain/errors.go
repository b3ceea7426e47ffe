package blockchain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyChain means the chain has no genesis block. NewBlockchain always creates one, so
	// seeing this is an invariant violation.
	ErrEmptyChain = errors.New("chain has no blocks")

	ErrInvalidProof = errors.New("proof does not satisfy the work predicate")
)

// ValidationError reports a malformed transaction request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientBalanceError reports a transfer larger than the sender's committed balance.
type InsufficientBalanceError struct {
	Sender  string
	Balance int64
	Amount  int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for transaction: %s has %d, needs %d", e.Sender, e.Balance, e.Amount)
}
