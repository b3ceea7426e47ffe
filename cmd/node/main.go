package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shu8h0-null/goblin/core"
	"github.com/shu8h0-null/goblin/core/config"
	"github.com/shu8h0-null/goblin/core/logger"
)

var log = logger.NewLogger()

func main() {
	cfg, err := config.ParseNodeFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Errorf("Invalid configuration: %v", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listenForQuitSignal(ctx, cancel)

	log.Info("Starting ledger node...")
	node, err := core.InitNode(cfg)
	if err != nil {
		log.Errorf("Error initialising node: %v", err)
		os.Exit(1)
	}

	if err := node.Run(ctx); err != nil {
		log.Errorf("Node stopped: %v", err)
		os.Exit(1)
	}
	_ = log.Sync()
}

func listenForQuitSignal(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			log.Infof("Received signal: %s, shutting down...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
}
