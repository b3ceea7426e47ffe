package rpc

import (
	"context"
	"fmt"
	"strings"

	"github.com/filecoin-project/go-jsonrpc"
)

// Client talks to a node's JSON-RPC endpoint.
type Client struct {
	api struct {
		Mine           func(ctx context.Context) (*MineResult, error)
		NewTransaction func(ctx context.Context, req TransactionRequest) (*TransactionResult, error)
		Chain          func(ctx context.Context) (*ChainResult, error)
		Balance        func(ctx context.Context, address string) (*BalanceResult, error)
		Wallet         func(ctx context.Context) (*WalletResult, error)
	}
	closer jsonrpc.ClientCloser
}

// NewClient connects to the node at addr, either "host:port" or a full http(s) URL.
func NewClient(ctx context.Context, addr string) (*Client, error) {
	c := &Client{}
	closer, err := jsonrpc.NewClient(ctx, endpoint(addr), Namespace, &c.api, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rpc client for %s: %w", addr, err)
	}
	c.closer = closer
	return c, nil
}

func endpoint(addr string) string {
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	addr = strings.TrimSuffix(addr, "/")
	if !strings.HasSuffix(addr, RPCPath) {
		addr += RPCPath
	}
	return addr
}

func (c *Client) Mine(ctx context.Context) (*MineResult, error) {
	return c.api.Mine(ctx)
}

func (c *Client) NewTransaction(ctx context.Context, sender, recipient, amount string) (*TransactionResult, error) {
	return c.api.NewTransaction(ctx, TransactionRequest{Sender: sender, Recipient: recipient, Amount: amount})
}

func (c *Client) Chain(ctx context.Context) (*ChainResult, error) {
	return c.api.Chain(ctx)
}

func (c *Client) Balance(ctx context.Context, address string) (*BalanceResult, error) {
	return c.api.Balance(ctx, address)
}

func (c *Client) Wallet(ctx context.Context) (*WalletResult, error) {
	return c.api.Wallet(ctx)
}

func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}
