package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultApprovalPrompt asks the operator to collect approval before typing token
func DefaultApprovalPrompt(token string) string {
	return fmt.Sprintf("Please share the pull requests above with the team, tagging every author. "+
		"After getting their approval, type %q (without the quotes) and press return to continue the deployment.", token)
}

// ApprovalGate blocks on a single line of input and only approves an exact,
// case-sensitive match of Token. There is no retry.
type ApprovalGate struct {
	In     io.Reader
	Out    io.Writer
	Token  string
	Prompt string // DefaultApprovalPrompt(Token) when empty
}

// Approve prompts once and reports whether the answer matched the token
func (g *ApprovalGate) Approve() (bool, error) {
	if g.Token == "" {
		return false, errors.New("approval token is not configured")
	}

	prompt := g.Prompt
	if prompt == "" {
		prompt = DefaultApprovalPrompt(g.Token)
	}
	fmt.Fprintf(g.Out, "\n%s\n> ", PromptStyle.Render(prompt))

	input, err := bufio.NewReader(g.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read approval: %w", err)
	}

	// only the line terminator is stripped; surrounding spaces do not match
	return strings.TrimRight(input, "\r\n") == g.Token, nil
}
