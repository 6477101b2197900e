package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/ktr0731/go-fuzzyfinder"
)

func init() {
	// Force lipgloss to initialize and detect terminal before fuzzy finder starts
	// This prevents ANSI escape sequences from leaking into the finder input
	_ = lipgloss.NewStyle().Render("")
	_ = lipgloss.HasDarkBackground()
}

// SelectProject presents a fuzzy finder over the allow-list.
// Returns "" if the user cancelled the selection.
func SelectProject(projects []string) (string, error) {
	if len(projects) == 0 {
		return "", errors.New("no projects to select from")
	}

	os.Stdout.Sync()
	os.Stderr.Sync()

	idx, err := fuzzyfinder.Find(
		projects,
		func(i int) string {
			return projects[i]
		},
		fuzzyfinder.WithPromptString("project> "),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("project selection failed: %w", err)
	}
	return projects[idx], nil
}
