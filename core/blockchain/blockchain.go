package blockchain

import (
	"fmt"
	"sync"
	"time"
)

// Genesis fixes the literal previous hash and proof of block 1.
type Genesis struct {
	PreviousHash string
	Proof        int64
}

// Blockchain is the append-only chain of committed blocks. It owns the pool of transactions
// waiting for the next block, and one lock covers both so a drain and the matching append are
// a single step.
type Blockchain struct {
	chain []*Block
	pool  *Mempool
	mu    sync.RWMutex
	now   func() time.Time
}

// NewBlockchain creates the chain with its genesis block. No work is done for genesis.
func NewBlockchain(genesis Genesis) *Blockchain {
	bc := &Blockchain{
		pool: NewMempool(),
		now:  time.Now,
	}
	bc.chain = append(bc.chain, bc.newBlock(genesis.Proof, genesis.PreviousHash))
	return bc
}

// NewTransaction stages tx for the next block and returns that block's index. The index is
// informational: every staged transaction lands in the same next block.
func (bc *Blockchain) NewTransaction(tx Transaction) int64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	bc.pool.Add(tx)
	return int64(len(bc.chain)) + 1
}

// AppendBlock drains the pool into a new block and appends it. An empty previousHash means the
// hash of the current last block.
//
// The proof is checked against the last block's proof; a proof that fails IsValidProof is
// rejected with ErrInvalidProof and nothing changes.
func (bc *Blockchain) AppendBlock(proof int64, previousHash string) (*Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if err := bc.checkProof(proof); err != nil {
		return nil, err
	}
	return bc.appendBlock(proof, previousHash), nil
}

// CommitBlock is the mining commit: it stages reward, then drains and appends in one step.
func (bc *Blockchain) CommitBlock(proof int64, reward Transaction) (*Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if err := bc.checkProof(proof); err != nil {
		return nil, err
	}
	bc.pool.Add(reward)
	return bc.appendBlock(proof, ""), nil
}

func (bc *Blockchain) checkProof(proof int64) error {
	if len(bc.chain) == 0 {
		return ErrEmptyChain
	}
	last := bc.chain[len(bc.chain)-1]
	if !IsValidProof(last.Proof, proof) {
		return fmt.Errorf("%w: %d after %d", ErrInvalidProof, proof, last.Proof)
	}
	return nil
}

func (bc *Blockchain) appendBlock(proof int64, previousHash string) *Block {
	if previousHash == "" {
		previousHash = bc.chain[len(bc.chain)-1].Hash()
	}
	b := bc.newBlock(proof, previousHash)
	bc.chain = append(bc.chain, b)
	return b.Copy()
}

func (bc *Blockchain) newBlock(proof int64, previousHash string) *Block {
	return &Block{
		Index:        int64(len(bc.chain)) + 1,
		Timestamp:    float64(bc.now().UnixNano()) / float64(time.Second),
		Transactions: bc.pool.Drain(),
		Proof:        proof,
		PreviousHash: previousHash,
	}
}

// LastBlock returns a copy of the most recently appended block.
func (bc *Blockchain) LastBlock() (*Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.chain) == 0 {
		return nil, ErrEmptyChain
	}
	return bc.chain[len(bc.chain)-1].Copy(), nil
}

// Chain returns copies of all committed blocks in order.
func (bc *Blockchain) Chain() []*Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	blocks := make([]*Block, len(bc.chain))
	for i, b := range bc.chain {
		blocks[i] = b.Copy()
	}
	return blocks
}

func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.chain)
}

func (bc *Blockchain) Pool() *Mempool {
	return bc.pool
}
