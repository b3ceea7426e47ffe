package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shu8h0-null/goblin/core/blockchain"
)

// Centered places the boxed content in the middle of a w by h terminal.
func Centered(content string, w, h int) string {
	return lipgloss.Place(
		w, h,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

func addressValidator(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("Invalid address: cannot be empty!")
	}
	return nil
}

func amountValidator(input string) error {
	if input == "" {
		return nil
	}
	_, err := blockchain.ParseAmount(input)
	return err
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
