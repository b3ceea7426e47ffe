package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shu8h0-null/goblin/core/rpc"
)

const (
	modeSelector = iota
	modeChain
	modeTransaction
	modeWallet
)

const (
	optMine = iota
	optChain
	optTransaction
	optWallet
)

// Client is the part of the node API the terminal client drives. *rpc.Client satisfies it.
type Client interface {
	Mine(ctx context.Context) (*rpc.MineResult, error)
	NewTransaction(ctx context.Context, sender, recipient, amount string) (*rpc.TransactionResult, error)
	Chain(ctx context.Context) (*rpc.ChainResult, error)
	Wallet(ctx context.Context) (*rpc.WalletResult, error)
}

type (
	minedMsg   struct{ res *rpc.MineResult }
	sentMsg    struct{ res *rpc.TransactionResult }
	chainMsg   struct{ res *rpc.ChainResult }
	walletMsg  struct{ res *rpc.WalletResult }
	failureMsg struct{ err error }
)

// Main model
type model struct {
	ctx    context.Context
	client Client

	mode          int
	selectedIndex int
	options       []string
	form          txForm

	busy   bool
	status string
	err    error
	chain  *rpc.ChainResult
	wallet *rpc.WalletResult

	width  int
	height int
}

func newModel(ctx context.Context, client Client) model {
	return model{
		ctx:     ctx,
		client:  client,
		mode:    modeSelector,
		options: []string{"Mine a block", "View the chain", "New transaction", "My wallet"},
		form:    newTxForm(),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case minedMsg:
		m.busy = false
		m.err = nil
		m.status = fmt.Sprintf("%s: block %d with %d transactions", msg.res.Message, msg.res.Index, len(msg.res.Transactions))
		return m, nil
	case sentMsg:
		m.busy = false
		m.err = nil
		m.status = msg.res.Message
		m.mode = modeSelector
		m.form = newTxForm()
		return m, nil
	case chainMsg:
		m.busy = false
		m.chain = msg.res
		return m, nil
	case walletMsg:
		m.busy = false
		m.wallet = msg.res
		return m, nil
	case failureMsg:
		m.busy = false
		m.err = msg.err
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.mode == modeSelector {
				return m, tea.Quit
			}
			m.mode = modeSelector
			return m, nil
		}
	}

	switch m.mode {
	case modeSelector:
		return m.updateSelector(msg)
	case modeTransaction:
		return m.updateTransaction(msg)
	}
	return m, nil
}

func (m model) updateSelector(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "down", "j":
		if m.selectedIndex < len(m.options)-1 {
			m.selectedIndex++
		}
	case "up", "k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "enter":
		if m.busy {
			return m, nil
		}
		m.err = nil
		switch m.selectedIndex {
		case optMine:
			m.busy = true
			m.status = "Mining..."
			return m, m.mine()
		case optChain:
			m.mode = modeChain
			m.busy = true
			return m, m.fetchChain()
		case optTransaction:
			m.mode = modeTransaction
			m.form = newTxForm()
			return m, nil
		case optWallet:
			m.mode = modeWallet
			m.busy = true
			return m, m.fetchWallet()
		}
	}
	return m, nil
}

func (m model) updateTransaction(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && m.form.onSend() {
		if m.busy {
			return m, nil
		}
		sender, recipient, amt, err := m.form.values()
		if err != nil {
			m.form.err = err
			return m, nil
		}
		m.busy = true
		return m, m.send(sender, recipient, amt)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m model) mine() tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.Mine(m.ctx)
		if err != nil {
			return failureMsg{err}
		}
		return minedMsg{res}
	}
}

func (m model) send(sender, recipient, amt string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.NewTransaction(m.ctx, sender, recipient, amt)
		if err != nil {
			return failureMsg{err}
		}
		return sentMsg{res}
	}
}

func (m model) fetchChain() tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.Chain(m.ctx)
		if err != nil {
			return failureMsg{err}
		}
		return chainMsg{res}
	}
}

func (m model) fetchWallet() tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.Wallet(m.ctx)
		if err != nil {
			return failureMsg{err}
		}
		return walletMsg{res}
	}
}

func (m model) View() string {
	var content string

	switch m.mode {
	case modeSelector:
		content = "~~ Select an option ~~\n\n"
		for i, option := range m.options {
			if i == m.selectedIndex {
				content += "=> " + selectedStyle.Render(option) + "\n\n"
			} else {
				content += "=> " + unSelectedStyle.Render(option) + "\n\n"
			}
		}
	case modeChain:
		content = chainView(m.chain)
	case modeTransaction:
		content = m.form.View()
	case modeWallet:
		content = walletView(m.wallet)
	}

	if m.err != nil {
		content += "\n" + errorStyle.Render(m.err.Error())
	} else if m.status != "" {
		content += "\n" + statusStyle.Render(m.status)
	}

	help := "\nPress Esc to go back."
	if m.mode == modeSelector {
		help = "\nPress Esc to quit."
	}
	content += "\n" + helpStyle.Render(help)

	return Centered(content, m.width, m.height)
}

// Run opens the terminal client against client until the user quits.
func Run(ctx context.Context, client Client) error {
	p := tea.NewProgram(newModel(ctx, client), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("Error running terminal client: %w", err)
	}
	return nil
}
