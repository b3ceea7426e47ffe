package rpc

import (
	"context"
	"strconv"

	"github.com/filecoin-project/go-jsonrpc"
)

// RPCHandler publishes the ledger operations over JSON-RPC under Namespace.
type RPCHandler struct {
	rpcServer Server
}

func NewRPCHandler(s Server) *RPCHandler {
	return &RPCHandler{
		rpcServer: s,
	}
}

func (h *RPCHandler) Mine(ctx context.Context) (*MineResult, error) {
	block, err := h.rpcServer.Mine(ctx)
	if err != nil {
		return nil, err
	}
	return newMineResult(block), nil
}

func (h *RPCHandler) NewTransaction(ctx context.Context, req TransactionRequest) (*TransactionResult, error) {
	index, err := h.rpcServer.SubmitTransaction(req.Sender, req.Recipient, req.Amount)
	if err != nil {
		return nil, err
	}
	return newTransactionResult(index), nil
}

func (h *RPCHandler) Chain(ctx context.Context) (*ChainResult, error) {
	return newChainResult(h.rpcServer.Chain()), nil
}

func (h *RPCHandler) Balance(ctx context.Context, address string) (*BalanceResult, error) {
	return &BalanceResult{Address: address, Balance: h.rpcServer.Balance(address)}, nil
}

func (h *RPCHandler) Wallet(ctx context.Context) (*WalletResult, error) {
	id := h.rpcServer.NodeIdentifier()
	return &WalletResult{NodeIdentifier: id, Balance: h.rpcServer.Balance(id)}, nil
}

func newJSONRPCServer(handler *RPCHandler) *jsonrpc.RPCServer {
	rpcServer := jsonrpc.NewServer()
	rpcServer.Register(Namespace, handler)
	return rpcServer
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
