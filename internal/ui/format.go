package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bjulian5/promote/internal/model"
)

// Truncate truncates text to maxLen with an ellipsis if needed
// Uses lipgloss for proper ANSI-aware width handling
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	width := lipgloss.Width(text)
	if width <= maxLen {
		return text
	}

	if maxLen <= 3 {
		return lipgloss.NewStyle().MaxWidth(maxLen).Render(text)
	}
	return lipgloss.NewStyle().MaxWidth(maxLen-3).Render(text) + "..."
}

// ShortRef returns the display form of a commit id
func ShortRef(ref model.Ref) string {
	return ref.Short(Display.CommitHashDisplayLength)
}

// FormatMergedAt renders a merge time in loc using the medium date-time layout
func FormatMergedAt(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(Display.TimeLayout)
}

// FormatChangeRequestLine renders the first line of a list entry:
//
//	(1) alice: Add retry to the fetcher (Jan 2, 2024, 3:04 PM) a1b2c3d
func FormatChangeRequestLine(index int, cr model.ChangeRequest, loc *time.Location) string {
	return fmt.Sprintf("(%d) %s %s %s %s",
		index,
		AuthorStyle.Render(cr.Author+":"),
		cr.Title,
		MergedAtStyle.Render("("+FormatMergedAt(cr.MergedAt, loc)+")"),
		RefStyle.Render(ShortRef(cr.TerminalRef)),
	)
}

// UniqueAuthors returns the distinct authors in first-seen order
func UniqueAuthors(crs []model.ChangeRequest) []string {
	seen := make(map[string]bool, len(crs))
	var authors []string
	for _, cr := range crs {
		if seen[cr.Author] {
			continue
		}
		seen[cr.Author] = true
		authors = append(authors, cr.Author)
	}
	return authors
}

// FormatAuthorSummary renders "Unique authors [N]: a b c"
func FormatAuthorSummary(authors []string) string {
	return fmt.Sprintf("%s %s", Bold(fmt.Sprintf("Unique authors [%d]:", len(authors))), strings.Join(authors, " "))
}

// RenderSeparator renders a horizontal separator line
func RenderSeparator(width int) string {
	if width <= 0 {
		width = Display.DefaultTerminalWidth
	}
	if Display.MaxSeparatorWidth > 0 && width > Display.MaxSeparatorWidth {
		width = Display.MaxSeparatorWidth
	}
	return DimStyle.Render(strings.Repeat("─", width))
}

// RenderBulletList renders a list with bullets
func RenderBulletList(items []string) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, DimStyle.Render("  • ")+item)
	}
	return strings.Join(lines, "\n")
}
