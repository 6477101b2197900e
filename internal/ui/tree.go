package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/bjulian5/promote/internal/model"
)

// RenderAuthorTree groups change requests under their authors, in first-seen order
// Example output:
//
//	Authors (2)
//	├─ alice
//	│  ├─ #101 Add retry (a1b2c3d)
//	│  ╰─ #103 Fix typo (c3d4e5f)
//	╰─ bob
//	   ╰─ #102 Bump deps (b2c3d4e)
func RenderAuthorTree(crs []model.ChangeRequest) string {
	authors := UniqueAuthors(crs)
	t := tree.Root(TreeRootStyle.Render(fmt.Sprintf("Authors (%d)", len(authors))))

	byAuthor := make(map[string][]model.ChangeRequest, len(authors))
	for _, cr := range crs {
		byAuthor[cr.Author] = append(byAuthor[cr.Author], cr)
	}

	for _, author := range authors {
		node := tree.Root(AuthorStyle.Render(author))
		for _, cr := range byAuthor[author] {
			node.Child(fmt.Sprintf("#%d %s %s", cr.Number, Truncate(cr.Title, Display.MaxTitleLengthTable), Dim("("+ShortRef(cr.TerminalRef)+")")))
		}
		node.Enumerator(roundedEnumerator()).
			EnumeratorStyle(TreeEnumeratorStyle).
			Indenter(treeIndenter())
		t.Child(node)
	}

	t.Enumerator(roundedEnumerator()).
		EnumeratorStyle(TreeEnumeratorStyle).
		Indenter(treeIndenter())

	return t.String()
}

func roundedEnumerator() tree.Enumerator {
	return func(children tree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}
		if i == children.Length()-1 {
			return "╰─ "
		}
		return "├─ "
	}
}

func treeIndenter() tree.Indenter {
	return func(children tree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}
		if i == children.Length()-1 {
			return "   "
		}
		return "│  "
	}
}
