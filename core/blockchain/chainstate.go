package blockchain

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shu8h0-null/goblin/core/metrics"
)

// ChainState is the single owner of a node's ledger. It validates submissions before they reach
// the pool and runs the mine-then-commit sequence.
type ChainState struct {
	blockchain *Blockchain
	miner      *Miner
	events     *EventBus
	metrics    *metrics.Metrics

	// mineMu serializes miners so two searches never race for the same predecessor.
	mineMu sync.Mutex
}

func NewChainState(bc *Blockchain, miner *Miner, events *EventBus, m *metrics.Metrics) (*ChainState, error) {
	if bc == nil {
		return nil, errors.New("Blockchain cannot be nil")
	}
	if miner == nil {
		return nil, errors.New("Miner cannot be nil")
	}
	if events == nil {
		events = NewEventBus()
	}
	m.ChainLength(bc.Len())

	return &ChainState{
		blockchain: bc,
		miner:      miner,
		events:     events,
		metrics:    m,
	}, nil
}

func (cs *ChainState) Blockchain() *Blockchain {
	return cs.blockchain
}

func (cs *ChainState) Miner() *Miner {
	return cs.miner
}

func (cs *ChainState) Events() *EventBus {
	return cs.events
}

// ParseAmount accepts a base-10 integer that is zero or greater.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "amount", Reason: "missing"}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "amount", Reason: "not an integer: " + strconv.Quote(s)}
	}
	if v < 0 {
		return 0, &ValidationError{Field: "amount", Reason: "cannot be negative"}
	}
	return v, nil
}

// SubmitTransaction validates a transfer and stages it. It returns the index of the block the
// transfer is expected to land in.
//
// The balance check only sees committed blocks. Two staged transfers from one sender can each
// pass and still overdraw together; that case is logged, not rejected.
func (cs *ChainState) SubmitTransaction(sender, recipient, amount string) (int64, error) {
	tx, err := cs.checkTransaction(sender, recipient, amount)
	if err != nil {
		var insufficient *InsufficientBalanceError
		if errors.As(err, &insufficient) {
			cs.metrics.TxRejected("insufficient_balance")
		} else {
			cs.metrics.TxRejected("validation")
		}
		log.Infof("Transaction rejected: %v", err)
		return 0, err
	}

	index := cs.blockchain.NewTransaction(tx)
	pending := cs.blockchain.Pool().Len()
	cs.metrics.TxSubmitted(pending)
	cs.events.TxFeed.Send(TransactionStagedEvent{Transaction: tx, BlockIndex: index, Pending: pending})
	log.Infof("Transaction %s -> %s (%d) will be added to Block %d", tx.Sender, tx.Recipient, tx.Amount, index)
	return index, nil
}

func (cs *ChainState) checkTransaction(sender, recipient, amount string) (Transaction, error) {
	if sender == "" {
		return Transaction{}, &ValidationError{Field: "sender", Reason: "missing"}
	}
	if recipient == "" {
		return Transaction{}, &ValidationError{Field: "recipient", Reason: "missing"}
	}
	value, err := ParseAmount(amount)
	if err != nil {
		return Transaction{}, err
	}

	balance := cs.blockchain.BalanceOf(sender)
	if balance < value {
		return Transaction{}, &InsufficientBalanceError{Sender: sender, Balance: balance, Amount: value}
	}
	if staged := cs.blockchain.Pool().PendingOutflow(sender); staged+value > balance {
		log.Warnf("Sender %s has %d staged plus %d requested against a committed balance of %d; the next block may overdraw it",
			sender, staged, value, balance)
	}

	return Transaction{Sender: sender, Recipient: recipient, Amount: value}, nil
}

// Mine finds the next proof and commits a block carrying the pool plus the miner's reward.
//
// The proof search runs without holding the chain lock, so submissions keep flowing while it
// runs; they land in this block if they arrive before the commit.
func (cs *ChainState) Mine(ctx context.Context) (*Block, error) {
	cs.mineMu.Lock()
	defer cs.mineMu.Unlock()

	last, err := cs.blockchain.LastBlock()
	if err != nil {
		return nil, err
	}

	log.Infof("Mining for new Block:[%d]", last.Index+1)
	start := time.Now()
	proof, err := cs.miner.Mine(ctx, last.Proof)
	if err != nil {
		cs.metrics.MiningCancelled()
		log.Warnf("Mining aborted for Block:[%d]: %v", last.Index+1, err)
		return nil, err
	}
	took := time.Since(start)

	block, err := cs.blockchain.CommitBlock(proof, cs.miner.RewardTx())
	if err != nil {
		return nil, err
	}

	hash := block.Hash()
	cs.metrics.BlockMined(took, cs.blockchain.Len())
	log.Infof("New Block Forged:[%d]:[%s] with %d transactions in %s", block.Index, hash, len(block.Transactions), took)
	cs.events.BlockFeed.Send(BlockMinedEvent{
		Index:        block.Index,
		Hash:         hash,
		Transactions: len(block.Transactions),
	})
	return block, nil
}

func (cs *ChainState) Balance(address string) int64 {
	return cs.blockchain.BalanceOf(address)
}

func (cs *ChainState) Chain() []*Block {
	return cs.blockchain.Chain()
}

func (cs *ChainState) Pending() []Transaction {
	return cs.blockchain.Pool().Pending()
}
