package rpc

import (
	"context"

	"github.com/shu8h0-null/goblin/core/blockchain"
)

// Server is the ledger as seen by the transport layer.
type Server interface {
	Mine(ctx context.Context) (*blockchain.Block, error)
	SubmitTransaction(sender, recipient, amount string) (int64, error)
	Chain() []*blockchain.Block
	Balance(address string) int64
	NodeIdentifier() string
}
