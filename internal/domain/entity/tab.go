package entity

// TabID uniquely identifies a tab.
// A tab's ID is always its href, so a route can be open at most once.
type TabID string

// Tab represents one open workspace entry bound to a single route.
type Tab struct {
	ID    TabID  `json:"id"`
	Title string `json:"title"`
	Href  string `json:"href"`
}

// NewTab creates a tab for href. The ID is derived from href.
func NewTab(href, title string) Tab {
	return Tab{
		ID:    TabID(href),
		Title: title,
		Href:  href,
	}
}

// TabSet manages an ordered collection of tabs and the active tab.
// Insertion order decides render order and the close fallback.
type TabSet struct {
	Tabs     []Tab  `json:"tabs"`
	ActiveID *TabID `json:"activeId"`
}

// NewTabSet creates an empty tab set.
func NewTabSet() *TabSet {
	return &TabSet{
		Tabs: make([]Tab, 0),
	}
}

// IsEmpty reports whether no tabs are open.
func (ts *TabSet) IsEmpty() bool {
	return ts == nil || len(ts.Tabs) == 0
}

// Count returns the number of tabs.
func (ts *TabSet) Count() int {
	if ts == nil {
		return 0
	}
	return len(ts.Tabs)
}

// IndexOf returns the position of the tab with id, or -1.
func (ts *TabSet) IndexOf(id TabID) int {
	for i, tab := range ts.Tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

// Find returns a tab by ID.
func (ts *TabSet) Find(id TabID) (Tab, bool) {
	if i := ts.IndexOf(id); i >= 0 {
		return ts.Tabs[i], true
	}
	return Tab{}, false
}

// FindByHref returns the tab whose href equals href.
func (ts *TabSet) FindByHref(href string) (Tab, bool) {
	for _, tab := range ts.Tabs {
		if tab.Href == href {
			return tab, true
		}
	}
	return Tab{}, false
}

// Active returns the currently active tab.
func (ts *TabSet) Active() (Tab, bool) {
	if ts.ActiveID == nil {
		return Tab{}, false
	}
	return ts.Find(*ts.ActiveID)
}

// IsActive reports whether id is the active tab.
func (ts *TabSet) IsActive(id TabID) bool {
	return ts.ActiveID != nil && *ts.ActiveID == id
}

// SetActive marks id as active. The caller guarantees id exists.
func (ts *TabSet) SetActive(id TabID) {
	active := id
	ts.ActiveID = &active
}

// ClearActive resets the active tab to none.
func (ts *TabSet) ClearActive() {
	ts.ActiveID = nil
}

// Append adds a tab to the end of the list.
// Returns false without changes if a tab with the same ID exists.
func (ts *TabSet) Append(tab Tab) bool {
	if ts.IndexOf(tab.ID) >= 0 {
		return false
	}
	ts.Tabs = append(ts.Tabs, tab)
	return true
}

// Remove removes a tab by ID. The active ID is left untouched;
// callers re-resolve it.
func (ts *TabSet) Remove(id TabID) bool {
	i := ts.IndexOf(id)
	if i < 0 {
		return false
	}
	ts.Tabs = append(ts.Tabs[:i], ts.Tabs[i+1:]...)
	return true
}

// Last returns the last tab in order.
func (ts *TabSet) Last() (Tab, bool) {
	if ts.IsEmpty() {
		return Tab{}, false
	}
	return ts.Tabs[len(ts.Tabs)-1], true
}

// First returns the first tab in order.
func (ts *TabSet) First() (Tab, bool) {
	if ts.IsEmpty() {
		return Tab{}, false
	}
	return ts.Tabs[0], true
}

// Clone returns a deep copy.
func (ts *TabSet) Clone() *TabSet {
	if ts == nil {
		return nil
	}
	out := &TabSet{Tabs: make([]Tab, len(ts.Tabs))}
	copy(out.Tabs, ts.Tabs)
	if ts.ActiveID != nil {
		out.SetActive(*ts.ActiveID)
	}
	return out
}

// Consistent reports whether the set satisfies its invariants:
// unique IDs, ID equal to href, and an active ID that resolves.
func (ts *TabSet) Consistent() bool {
	seen := make(map[TabID]struct{}, len(ts.Tabs))
	for _, tab := range ts.Tabs {
		if tab.ID != TabID(tab.Href) {
			return false
		}
		if _, dup := seen[tab.ID]; dup {
			return false
		}
		seen[tab.ID] = struct{}{}
	}
	if ts.ActiveID == nil {
		return true
	}
	_, ok := seen[*ts.ActiveID]
	return ok
}
