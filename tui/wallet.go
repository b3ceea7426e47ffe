package tui

import (
	"fmt"
	"strings"

	"github.com/shu8h0-null/goblin/core/rpc"
)

func walletView(w *rpc.WalletResult) string {
	if w == nil {
		return "~~ My wallet ~~\n\nLoading..."
	}
	return fmt.Sprintf("~~ My wallet ~~\n\n%s\n%s\n\n%s\n%d",
		inputStyle.Render("Node Identifier"), w.NodeIdentifier,
		inputStyle.Render("Balance"), w.Balance,
	)
}

func chainView(c *rpc.ChainResult) string {
	if c == nil {
		return "~~ Chain ~~\n\nLoading..."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "~~ Chain (%d blocks) ~~\n\n", c.Length)
	for _, b := range c.Chain {
		fmt.Fprintf(&sb, "%s proof %d prev %s\n",
			selectedStyle.Render(fmt.Sprintf(" #%d ", b.Index)), b.Proof, shorten(b.PreviousHash, 16))
		for _, tx := range b.Transactions {
			fmt.Fprintf(&sb, "    %s -> %s: %d\n", shorten(tx.Sender, 16), shorten(tx.Recipient, 16), tx.Amount)
		}
	}
	return sb.String()
}
