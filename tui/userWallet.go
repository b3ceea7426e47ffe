package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shu8h0-null/goblin/core/blockchain"
)

const (
	senderAddr = iota
	recipientAddr
	amount
	send
)

// txForm collects a sender, a recipient and an amount for a new transaction.
type txForm struct {
	txtInputs  []textinput.Model
	focusIndex int
	err        error
}

func newTxForm() txForm {
	inputs := make([]textinput.Model, 3)

	inputs[senderAddr] = textinput.New()
	inputs[senderAddr].Prompt = "-> "
	inputs[senderAddr].Placeholder = "Address paying the amount"
	inputs[senderAddr].Width = 60
	inputs[senderAddr].Validate = addressValidator
	inputs[senderAddr].Focus()

	inputs[recipientAddr] = textinput.New()
	inputs[recipientAddr].Prompt = "-> "
	inputs[recipientAddr].Placeholder = "Address receiving the amount"
	inputs[recipientAddr].Width = 60
	inputs[recipientAddr].Validate = addressValidator

	inputs[amount] = textinput.New()
	inputs[amount].Prompt = "-> "
	inputs[amount].Placeholder = "Whole number of coins"
	inputs[amount].Width = 30
	inputs[amount].Validate = amountValidator

	return txForm{txtInputs: inputs}
}

// Update moves focus with up/down and forwards every other key to the focused input.
func (f txForm) Update(msg tea.Msg) (txForm, tea.Cmd) {
	var cmds []tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "down", "tab":
			if f.focusIndex < send {
				f.focusIndex++
			}
		case "up", "shift+tab":
			if f.focusIndex > 0 {
				f.focusIndex--
			}
		}
	}

	for i := range f.txtInputs {
		if i == f.focusIndex {
			cmds = append(cmds, f.txtInputs[i].Focus())
		} else {
			f.txtInputs[i].Blur()
		}
		var cmd tea.Cmd
		f.txtInputs[i], cmd = f.txtInputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}

	f.err = nil
	for i := range f.txtInputs {
		if i != f.focusIndex && f.txtInputs[i].Err != nil {
			f.err = f.txtInputs[i].Err
		}
	}
	return f, tea.Batch(cmds...)
}

func (f txForm) onSend() bool {
	return f.focusIndex == send
}

// values checks every field and returns them ready for submission.
func (f txForm) values() (sender, recipient, amt string, err error) {
	sender = f.txtInputs[senderAddr].Value()
	recipient = f.txtInputs[recipientAddr].Value()
	amt = f.txtInputs[amount].Value()

	if err = addressValidator(sender); err != nil {
		return "", "", "", err
	}
	if err = addressValidator(recipient); err != nil {
		return "", "", "", err
	}
	if _, err = blockchain.ParseAmount(amt); err != nil {
		return "", "", "", err
	}
	return sender, recipient, amt, nil
}

func (f txForm) View() string {
	sendButton := " Send "
	if f.focusIndex == send {
		sendButton = buttonFocusedStyle.Render(sendButton)
	} else {
		sendButton = buttonStyle.Render(sendButton)
	}

	errMsg := ""
	if f.err != nil {
		errMsg = errorStyle.Render(f.err.Error())
	}

	return fmt.Sprintf(
		`~~ New transaction ~~
%s

%s
%s

%s
%s

%s
%s

%s
`,
		errMsg,
		inputStyle.Render("Sender"),
		f.txtInputs[senderAddr].View(),
		inputStyle.Render("Recipient"),
		f.txtInputs[recipientAddr].View(),
		inputStyle.Render("Amount"),
		f.txtInputs[amount].View(),
		sendButton,
	)
}
