package core

import (
	"context"
	"errors"
	"fmt"

	blkchn "github.com/shu8h0-null/goblin/core/blockchain"
	"github.com/shu8h0-null/goblin/core/config"
	"github.com/shu8h0-null/goblin/core/logger"
	"github.com/shu8h0-null/goblin/core/metrics"
	"github.com/shu8h0-null/goblin/core/rpc"
)

var log = logger.NewLogger()

// Node owns one ledger and serves it over HTTP and JSON-RPC.
type Node struct {
	cfg        config.Config
	chainState *blkchn.ChainState
	wallet     *blkchn.Wallet
	metrics    *metrics.Metrics
}

func NewNode(cfg config.Config, cs *blkchn.ChainState, wallet *blkchn.Wallet, m *metrics.Metrics) (*Node, error) {
	if cs == nil {
		return nil, errors.New("Chainstate cannot be nil")
	}
	if wallet == nil {
		return nil, errors.New("Wallet cannot be nil")
	}

	return &Node{
		cfg:        cfg,
		chainState: cs,
		wallet:     wallet,
		metrics:    m,
	}, nil
}

// InitNode wires a fresh in-memory ledger from cfg.
func InitNode(cfg config.Config) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	wallet, err := initWallet(cfg.WalletID)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	cs, err := initChainState(cfg, wallet, m)
	if err != nil {
		return nil, err
	}

	return NewNode(cfg, cs, wallet, m)
}

func (n *Node) ChainState() *blkchn.ChainState {
	return n.chainState
}

func (n *Node) Wallet() *blkchn.Wallet {
	return n.wallet
}

// Run serves the ledger until ctx is cancelled.
func (n *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go n.BlockLogger(ctx)

	log.Infof("Node wallet %s started with genesis Block:[1]", n.wallet.Address)
	handler := rpc.NewHandler(n, n.metrics.Handler())
	if err := rpc.StartRPC(ctx, n.cfg.RPC.ListenAddr, handler); err != nil {
		return fmt.Errorf("Error serving ledger API: %w", err)
	}

	log.Info("Cleaning Up...")
	return nil
}

// BlockLogger reports every block this node mines, and every transfer it stages, until ctx is
// done.
func (n *Node) BlockLogger(ctx context.Context) {
	bus := n.chainState.Events()

	blocks := make(chan blkchn.BlockMinedEvent, 16)
	if err := bus.BlockFeed.Subscribe("block-logger", blocks); err != nil {
		log.Errorf("Error subscribing to block feed: %v", err)
		return
	}
	defer bus.BlockFeed.UnSubscribe("block-logger")

	staged := make(chan blkchn.TransactionStagedEvent, 64)
	if err := bus.TxFeed.Subscribe("block-logger", staged); err != nil {
		log.Errorf("Error subscribing to transaction feed: %v", err)
		return
	}
	defer bus.TxFeed.UnSubscribe("block-logger")

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-blocks:
			log.Infof("Block:[%d]:[%s] appended with %d transactions; chain length %d",
				ev.Index, ev.Hash, ev.Transactions, n.chainState.Blockchain().Len())
		case ev := <-staged:
			log.Debugf("Staged %s -> %s (%d) for Block:[%d]; %d pending",
				ev.Transaction.Sender, ev.Transaction.Recipient, ev.Transaction.Amount, ev.BlockIndex, ev.Pending)
		}
	}
}

func (n *Node) Mine(ctx context.Context) (*blkchn.Block, error) {
	return n.chainState.Mine(ctx)
}

func (n *Node) SubmitTransaction(sender, recipient, amount string) (int64, error) {
	return n.chainState.SubmitTransaction(sender, recipient, amount)
}

func (n *Node) Chain() []*blkchn.Block {
	return n.chainState.Chain()
}

func (n *Node) Balance(address string) int64 {
	return n.chainState.Balance(address)
}

func (n *Node) NodeIdentifier() string {
	return n.wallet.Address
}

func initWallet(id string) (*blkchn.Wallet, error) {
	if id == "" {
		wallet, err := blkchn.NewWallet()
		if err != nil {
			return nil, fmt.Errorf("Error creating wallet for miner: %w", err)
		}
		return wallet, nil
	}

	store, err := blkchn.NewDb(config.WalletDir())
	if err != nil {
		return nil, fmt.Errorf("Error opening wallet store: %w", err)
	}
	defer store.Close()

	wallet, err := blkchn.LoadOrCreateWallet(store, id)
	if err != nil {
		return nil, fmt.Errorf("Error loading wallet for miner: %w", err)
	}
	return wallet, nil
}

func initChainState(cfg config.Config, wallet *blkchn.Wallet, m *metrics.Metrics) (*blkchn.ChainState, error) {
	bc := blkchn.NewBlockchain(blkchn.Genesis{
		PreviousHash: cfg.Genesis.PreviousHash,
		Proof:        cfg.Genesis.Proof,
	})

	miner, err := blkchn.NewMiner(wallet.Address, cfg.Mining.Reward)
	if err != nil {
		return nil, fmt.Errorf("Error initialising miner: %w", err)
	}

	cs, err := blkchn.NewChainState(bc, miner, blkchn.NewEventBus(), m)
	if err != nil {
		return nil, fmt.Errorf("Error creating new chainstate: %w", err)
	}
	return cs, nil
}
