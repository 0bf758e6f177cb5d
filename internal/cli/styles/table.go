package styles

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
)

// NewTable creates a table writing to w with the theme's header and
// first-column styles.
func (t *Theme) NewTable(w io.Writer, headers ...any) table.Table {
	tbl := table.New(headers...)
	tbl.WithWriter(w)
	tbl.WithPadding(2)
	tbl.WithHeaderFormatter(func(format string, vals ...any) string {
		return t.Subtitle.Render(fmt.Sprintf(format, vals...))
	})
	tbl.WithFirstColumnFormatter(func(format string, vals ...any) string {
		return t.Highlight.Render(fmt.Sprintf(format, vals...))
	})
	// ANSI sequences must not count toward column width.
	tbl.WithWidthFunc(lipgloss.Width)
	return tbl
}
