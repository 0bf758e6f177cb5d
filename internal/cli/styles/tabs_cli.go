package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/careshell/internal/application/usecase"
	"github.com/bnema/careshell/internal/domain/entity"
)

// TabsCLIRenderer renders non-interactive output for the tabs and views
// subcommands.
type TabsCLIRenderer struct {
	theme *Theme
}

func NewTabsCLIRenderer(theme *Theme) *TabsCLIRenderer {
	return &TabsCLIRenderer{theme: theme}
}

func (r *TabsCLIRenderer) RenderEmptyList() string {
	return r.theme.Subtle.Render("No stored workspaces found.")
}

// RenderList renders one row per stored workspace.
func (r *TabsCLIRenderer) RenderList(items []usecase.StoredWorkspace) string {
	if len(items) == 0 {
		return r.RenderEmptyList()
	}

	var b strings.Builder
	b.WriteString(r.header(IconUser, "Workspaces", len(items)))

	tbl := r.theme.NewTable(&b, "CLIENT", "TABS", "ACTIVE")
	for _, ws := range items {
		if !ws.Readable() {
			tbl.AddRow(ws.ClientID, r.theme.ErrorStyle.Render("unreadable"), "")
			continue
		}
		active := r.theme.Subtle.Render("none")
		if tab, ok := ws.Tabs.Active(); ok {
			active = tab.Href
		}
		tbl.AddRow(ws.ClientID, ws.Tabs.Count(), active)
	}
	tbl.Print()
	return strings.TrimRight(b.String(), "\n")
}

// RenderWorkspace renders a tab strip followed by one line per tab.
func (r *TabsCLIRenderer) RenderWorkspace(ws usecase.StoredWorkspace) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n\n", r.theme.Highlight.Render(IconUser), r.theme.Title.Render(ws.ClientID)))

	if !ws.Readable() {
		b.WriteString(r.theme.ErrorStyle.Render("Stored snapshot is unreadable and will be discarded on next restore."))
		return b.String()
	}
	if ws.Tabs.IsEmpty() {
		b.WriteString(r.theme.Subtle.Render("No open tabs."))
		return b.String()
	}

	b.WriteString(r.TabStrip(ws.Tabs))
	b.WriteString("\n\n")

	tbl := r.theme.NewTable(&b, "", "TITLE", "HREF")
	for _, tab := range ws.Tabs.Tabs {
		marker := " "
		if ws.Tabs.IsActive(tab.ID) {
			marker = "●"
		}
		tbl.AddRow(marker, tab.Title, tab.Href)
	}
	tbl.Print()
	return strings.TrimRight(b.String(), "\n")
}

// TabStrip renders tabs in order with the active one highlighted.
func (r *TabsCLIRenderer) TabStrip(tabs *entity.TabSet) string {
	cells := make([]string, 0, tabs.Count())
	for _, tab := range tabs.Tabs {
		style := r.theme.InactiveTab
		if tabs.IsActive(tab.ID) {
			style = r.theme.ActiveTab
		}
		cells = append(cells, style.Render(tab.Title))
	}
	return r.theme.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
}

// RenderViews renders the registered view table.
func (r *TabsCLIRenderer) RenderViews(routes []usecase.ViewRoute) string {
	var b strings.Builder
	b.WriteString(r.header(IconRoute, "Registered views", len(routes)))

	tbl := r.theme.NewTable(&b, "PATH", "VIEW", "TITLE")
	for _, route := range routes {
		tbl.AddRow(route.Path, route.Name, route.Title)
	}
	tbl.Print()
	b.WriteString("\n")
	b.WriteString(r.theme.Subtle.Render("Other paths open in a frame."))
	return b.String()
}

func (r *TabsCLIRenderer) RenderCleared(clientID string) string {
	return fmt.Sprintf("%s Cleared stored workspace %s",
		r.theme.SuccessStyle.Render(IconTrash),
		r.theme.Highlight.Render(clientID),
	)
}

func (r *TabsCLIRenderer) RenderError(err error) string {
	return fmt.Sprintf("%s %s", r.theme.ErrorStyle.Render(IconX), r.theme.ErrorStyle.Render(err.Error()))
}

func (r *TabsCLIRenderer) header(icon, title string, count int) string {
	return fmt.Sprintf("%s %s %s\n\n",
		r.theme.Highlight.Render(icon),
		r.theme.Title.Render(title),
		r.theme.Subtle.Render(fmt.Sprintf("(%d)", count)),
	)
}
