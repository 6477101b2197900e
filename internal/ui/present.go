package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/bjulian5/promote/internal/model"
)

// Presenter renders a reconciled list of change requests for review
type Presenter struct {
	Out      io.Writer
	Location *time.Location // merge times are shown in this zone, time.Local when nil
	Table    bool
}

// Present writes crs in the order given, followed by the distinct authors.
// crs is not modified.
func (p *Presenter) Present(crs []model.ChangeRequest) error {
	out := p.render(crs)
	if _, err := io.WriteString(p.Out, out); err != nil {
		return fmt.Errorf("failed to write change requests: %w", err)
	}
	return nil
}

func (p *Presenter) render(crs []model.ChangeRequest) string {
	var out string
	if p.Table {
		out = RenderChangeRequestTable(crs, p) + "\n\n" + RenderAuthorTree(crs) + "\n"
	} else {
		for i, cr := range crs {
			out += FormatChangeRequestLine(i+1, cr, p.location()) + "\n"
			out += "    " + URLStyle.Render(cr.URL) + "\n"
		}
	}

	out += RenderSeparator(TerminalWidth(p.Out)) + "\n"
	out += FormatAuthorSummary(UniqueAuthors(crs)) + "\n"
	return out
}

func (p *Presenter) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}
