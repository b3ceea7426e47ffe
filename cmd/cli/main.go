package main

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"github.com/shu8h0-null/goblin/core/blockchain"
	"github.com/shu8h0-null/goblin/core/config"
	"github.com/shu8h0-null/goblin/core/rpc"
	"github.com/shu8h0-null/goblin/tui"
	"github.com/urfave/cli/v3"
)

const defaultNode = "127.0.0.1:5000"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "goblin",
		Usage: "talk to a goblin ledger node",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "node",
				Value: nodeDefault(),
				Usage: "address of the node (host:port or URL)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "mine",
				Usage: "mine the next block and collect the reward",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						res, err := c.Mine(ctx)
						if err != nil {
							return err
						}
						pterm.Success.Printfln("%s: block %d, proof %d, %d transactions", res.Message, res.Index, res.Proof, len(res.Transactions))
						return nil
					})
				},
			},
			{
				Name:  "send",
				Usage: "submit a transaction to the pool",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sender", Usage: "address paying the amount", Required: true},
					&cli.StringFlag{Name: "recipient", Usage: "address receiving the amount", Required: true},
					&cli.StringFlag{Name: "amount", Usage: "whole number of coins", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						res, err := c.NewTransaction(ctx, cmd.String("sender"), cmd.String("recipient"), cmd.String("amount"))
						if err != nil {
							return err
						}
						pterm.Success.Println(res.Message)
						return nil
					})
				},
			},
			{
				Name:  "chain",
				Usage: "print the full chain",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "raw", Usage: "dump the decoded blocks instead of a table"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						res, err := c.Chain(ctx)
						if err != nil {
							return err
						}
						if cmd.Bool("raw") {
							spew.Dump(res.Chain)
							return nil
						}
						pterm.Info.Printfln("Chain length: %d", res.Length)
						return pterm.DefaultTable.WithHasHeader().WithData(chainTable(res)).Render()
					})
				},
			},
			{
				Name:      "balance",
				Usage:     "print the committed balance of an address",
				ArgsUsage: "<address>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					address := cmd.Args().First()
					if address == "" {
						return fmt.Errorf("balance needs an address")
					}
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						res, err := c.Balance(ctx, address)
						if err != nil {
							return err
						}
						pterm.Info.Printfln("%s: %d", res.Address, res.Balance)
						return nil
					})
				},
			},
			{
				Name:  "wallet",
				Usage: "print the node identifier and its balance",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						res, err := c.Wallet(ctx)
						if err != nil {
							return err
						}
						pterm.Info.Printfln("Node Identifier: %s\nBalance: %d", res.NodeIdentifier, res.Balance)
						return nil
					})
				},
			},
			{
				Name:  "wallets",
				Usage: "list the wallets in the local keystore",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return listWallets(config.WalletDir())
				},
			},
			{
				Name:  "tui",
				Usage: "open the interactive terminal client",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						return tui.Run(ctx, c)
					})
				},
			},
		},
	}
}

func nodeDefault() string {
	if v := os.Getenv("GOBLIN_NODE"); v != "" {
		return v
	}
	return defaultNode
}

func withClient(ctx context.Context, cmd *cli.Command, fn func(c *rpc.Client) error) error {
	client, err := rpc.NewClient(ctx, cmd.String("node"))
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func listWallets(dir string) error {
	store, err := blockchain.NewDb(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	ids, err := store.WalletIDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		pterm.Info.Printfln("No wallets stored in %s", dir)
		return nil
	}

	data := pterm.TableData{{"Id", "Address"}}
	for _, id := range ids {
		wallet, err := store.GetWallet(id)
		if err != nil {
			return err
		}
		address := wallet.Address
		if err := wallet.Verify(); err != nil {
			address += " (invalid: " + err.Error() + ")"
		}
		data = append(data, []string{id, address})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func chainTable(res *rpc.ChainResult) pterm.TableData {
	data := pterm.TableData{{"Index", "Timestamp", "Proof", "Previous Hash", "Transactions"}}
	for _, b := range res.Chain {
		data = append(data, []string{
			fmt.Sprint(b.Index),
			fmt.Sprintf("%.3f", b.Timestamp),
			fmt.Sprint(b.Proof),
			shorten(b.PreviousHash, 16),
			fmt.Sprint(len(b.Transactions)),
		})
	}
	return data
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
