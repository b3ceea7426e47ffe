package blockchain_test

import (
	"context"

	"github.com/shu8h0-null/goblin/core/blockchain"

	. "github.com/onsi/gomega"
)

var testGenesis = blockchain.Genesis{
	PreviousHash: "The Times 19/May/2024 Increasing gold trading between distributions.",
	Proof:        100,
}

// nextProof mines the proof that follows the chain's current last block.
func nextProof(bc *blockchain.Blockchain) int64 {
	last, err := bc.LastBlock()
	Expect(err).NotTo(HaveOccurred())
	miner, err := blockchain.NewMiner("helper", 0)
	Expect(err).NotTo(HaveOccurred())
	proof, err := miner.Mine(context.Background(), last.Proof)
	Expect(err).NotTo(HaveOccurred())
	return proof
}

// commit stages txs and appends a block holding them.
func commit(bc *blockchain.Blockchain, txs ...blockchain.Transaction) *blockchain.Block {
	for _, tx := range txs {
		bc.NewTransaction(tx)
	}
	block, err := bc.AppendBlock(nextProof(bc), "")
	Expect(err).NotTo(HaveOccurred())
	return block
}

// fund credits address with amount through a committed reward transaction.
func fund(bc *blockchain.Blockchain, address string, amount int64) {
	commit(bc, blockchain.Transaction{Sender: blockchain.RewardSender, Recipient: address, Amount: amount})
}
