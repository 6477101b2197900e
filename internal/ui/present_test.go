package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/promote/internal/model"
)

func changeRequests() []model.ChangeRequest {
	merged := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	return []model.ChangeRequest{
		{Number: 103, Author: "alice", Title: "Add retry to the fetcher", MergedAt: merged.Add(2 * time.Hour), TerminalRef: "c3c3c3c3c3c3c3c3", URL: "https://github.com/acme/api/pull/103"},
		{Number: 102, Author: "bob", Title: "Bump dependencies", MergedAt: merged.Add(time.Hour), TerminalRef: "b2b2b2b2b2b2b2b2", URL: "https://github.com/acme/api/pull/102"},
		{Number: 101, Author: "alice", Title: "Fix typo", MergedAt: merged, TerminalRef: "a1a1a1a1a1a1a1a1", URL: "https://github.com/acme/api/pull/101"},
	}
}

func TestUniqueAuthors(t *testing.T) {
	tests := []struct {
		name     string
		crs      []model.ChangeRequest
		expected []string
	}{
		{name: "empty", crs: nil, expected: nil},
		{name: "first seen order", crs: changeRequests(), expected: []string{"alice", "bob"}},
		{
			name:     "single author",
			crs:      []model.ChangeRequest{{Author: "carol"}, {Author: "carol"}},
			expected: []string{"carol"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UniqueAuthors(tt.crs))
		})
	}
}

func TestFormatMergedAt(t *testing.T) {
	merged := time.Date(2024, 10, 14, 13, 30, 0, 0, time.UTC)

	assert.Equal(t, "Oct 14, 2024, 1:30 PM", FormatMergedAt(merged, time.UTC))
	assert.Equal(t, "Oct 14, 2024, 3:30 PM", FormatMergedAt(merged, time.FixedZone("CEST", 2*60*60)))
}

func TestShortRef(t *testing.T) {
	assert.Equal(t, "c3c3c3c", ShortRef("c3c3c3c3c3c3c3c3"))
	assert.Equal(t, "abcd", ShortRef("abcd"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijkl", 10))
	assert.Equal(t, "", Truncate("anything", 0))
}

func TestPresenter_List(t *testing.T) {
	var out bytes.Buffer
	p := &Presenter{Out: &out, Location: time.UTC}

	crs := changeRequests()
	require.NoError(t, p.Present(crs))

	text := out.String()
	assert.Contains(t, text, "(1) alice: Add retry to the fetcher (Jan 2, 2024, 5:04 PM) c3c3c3c")
	assert.Contains(t, text, "(2) bob: Bump dependencies (Jan 2, 2024, 4:04 PM) b2b2b2b")
	assert.Contains(t, text, "(3) alice: Fix typo (Jan 2, 2024, 3:04 PM) a1a1a1a")
	assert.Contains(t, text, "https://github.com/acme/api/pull/102")
	assert.Contains(t, text, "Unique authors [2]: alice bob")

	// order preserved
	first := strings.Index(text, "pull/103")
	second := strings.Index(text, "pull/102")
	third := strings.Index(text, "pull/101")
	assert.True(t, first < second && second < third, "output order must follow input order")
}

func TestPresenter_ListShowsWholeTitle(t *testing.T) {
	var out bytes.Buffer
	p := &Presenter{Out: &out, Location: time.UTC}

	crs := changeRequests()[:1]
	crs[0].Title = strings.Repeat("Refactor the deployment pipeline ", 6) + "end"
	require.NoError(t, p.Present(crs))

	assert.Contains(t, out.String(), crs[0].Title)
}

func TestPresenter_DoesNotMutateInput(t *testing.T) {
	crs := changeRequests()
	before := changeRequests()

	for _, table := range []bool{false, true} {
		p := &Presenter{Out: &bytes.Buffer{}, Location: time.UTC, Table: table}
		require.NoError(t, p.Present(crs))
	}
	assert.Equal(t, before, crs)
}

func TestPresenter_Table(t *testing.T) {
	var out bytes.Buffer
	p := &Presenter{Out: &out, Location: time.UTC, Table: true}

	require.NoError(t, p.Present(changeRequests()))

	text := out.String()
	for _, want := range []string{"Author", "Title", "URL", "#103", "#102", "#101", "c3c3c3c", "Authors (2)", "Unique authors [2]: alice bob"} {
		assert.Contains(t, text, want)
	}
	for _, cr := range changeRequests() {
		assert.Contains(t, text, cr.URL, "every row links to its pull request")
	}
}

func TestPresenter_Empty(t *testing.T) {
	var out bytes.Buffer
	p := &Presenter{Out: &out}

	require.NoError(t, p.Present(nil))
	assert.Contains(t, out.String(), "Unique authors [0]:")
}

func TestRenderAuthorTree(t *testing.T) {
	rendered := RenderAuthorTree(changeRequests())

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "Authors (2)")
	assert.Contains(t, lines[1], "alice")
	assert.Contains(t, lines[2], "#103 Add retry to the fetcher")
	assert.Contains(t, lines[3], "#101 Fix typo")
	assert.Contains(t, lines[4], "bob")
	assert.Contains(t, lines[5], "#102 Bump dependencies")
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	assert.Equal(t, Display.DefaultTerminalWidth, TerminalWidth(&bytes.Buffer{}))
}
