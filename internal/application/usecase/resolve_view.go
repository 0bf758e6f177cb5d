package usecase

import (
	"sort"

	"github.com/bnema/careshell/internal/domain/entity"
)

// ViewKind tells the renderer how to mount a tab's content.
type ViewKind string

const (
	// ViewRegistered renders a named view from the table.
	ViewRegistered ViewKind = "registered"
	// ViewFrame embeds href in a frame.
	ViewFrame ViewKind = "frame"
)

// ViewEntry describes a known record screen.
type ViewEntry struct {
	Name  string // template/view name
	Title string // default menu label
}

// ViewTable maps paths to views.
type ViewTable map[string]ViewEntry

// ResolvedView is the result of resolving a tab href.
type ResolvedView struct {
	Kind  ViewKind
	Name  string
	Title string
	Href  string
}

// ViewRoute is a table entry with its path, for listings.
type ViewRoute struct {
	Path string
	ViewEntry
}

// DefaultViewTable returns the record screens of the facility shell.
func DefaultViewTable() ViewTable {
	return ViewTable{
		"/member-info":    {Name: "member_info", Title: "회원정보"},
		"/vital-signs":    {Name: "vital_signs", Title: "생체징후"},
		"/bathing":        {Name: "bathing", Title: "목욕기록"},
		"/meals":          {Name: "meals", Title: "식사기록"},
		"/medication":     {Name: "medication", Title: "투약기록"},
		"/care-plan":      {Name: "care_plan", Title: "케어플랜"},
		"/admin/members":  {Name: "admin_members", Title: "회원관리"},
		"/admin/staff":    {Name: "admin_staff", Title: "직원관리"},
		"/office/billing": {Name: "office_billing", Title: "청구관리"},
	}
}

// ViewResolver maps a tab href to a view. Unknown paths fall back to a frame.
type ViewResolver struct {
	table ViewTable
}

// NewViewResolver creates a resolver over a copy of table.
func NewViewResolver(table ViewTable) *ViewResolver {
	t := make(ViewTable, len(table))
	for path, entry := range table {
		t[lookupKey(path)] = entry
	}
	return &ViewResolver{table: t}
}

// Resolve returns the view for href.
func (r *ViewResolver) Resolve(href string) ResolvedView {
	if entry, ok := r.table[lookupKey(href)]; ok {
		return ResolvedView{Kind: ViewRegistered, Name: entry.Name, Title: entry.Title, Href: href}
	}
	return ResolvedView{Kind: ViewFrame, Href: href}
}

// Routes lists the table sorted by path.
func (r *ViewResolver) Routes() []ViewRoute {
	routes := make([]ViewRoute, 0, len(r.table))
	for path, entry := range r.table {
		routes = append(routes, ViewRoute{Path: path, ViewEntry: entry})
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	return routes
}

func lookupKey(href string) string {
	return entity.NormalizePath(href)
}
