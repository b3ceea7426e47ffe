package rpc

import "github.com/shu8h0-null/goblin/core/blockchain"

const (
	Namespace = "Ledger"
	RPCPath   = "/rpc/v0"

	MsgBlockForged = "New Block Forged"
)

type MineResult struct {
	Message      string                   `json:"message"`
	Index        int64                    `json:"index"`
	Transactions []blockchain.Transaction `json:"transactions"`
	Proof        int64                    `json:"proof"`
	PreviousHash string                   `json:"previous_hash"`
}

type TransactionRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type TransactionResult struct {
	Message string `json:"message"`
	Index   int64  `json:"index"`
}

type ChainResult struct {
	Chain  []*blockchain.Block `json:"chain"`
	Length int                 `json:"length"`
}

type BalanceResult struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

type WalletResult struct {
	NodeIdentifier string `json:"node_identifier"`
	Balance        int64  `json:"balance"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func newMineResult(b *blockchain.Block) *MineResult {
	return &MineResult{
		Message:      MsgBlockForged,
		Index:        b.Index,
		Transactions: b.Transactions,
		Proof:        b.Proof,
		PreviousHash: b.PreviousHash,
	}
}

func newTransactionResult(index int64) *TransactionResult {
	return &TransactionResult{
		Message: "Transaction will be added to Block " + itoa(index),
		Index:   index,
	}
}

func newChainResult(chain []*blockchain.Block) *ChainResult {
	return &ChainResult{
		Chain:  chain,
		Length: len(chain),
	}
}
