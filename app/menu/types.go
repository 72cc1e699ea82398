package menu

// Menu model types

// DefaultCategory is the sentinel bucket for rows with a blank category.
const DefaultCategory = "Menu"

// Row is one spreadsheet record with case-folded field keys and trimmed
// values. Unrecognized columns are kept in the map but never read.
type Row map[string]string

type Model struct {
	Categories    []*Category    `json:"categories"`
	Announcements []Announcement `json:"announcements"`
}

// Category is one menu section. Groups and Items preserve source row order;
// category names are case-sensitive ("Tacos" and "tacos" are distinct).
type Category struct {
	Name   string   `json:"name"`
	Groups []*Group `json:"groups"`
	Items  []Item   `json:"items"`

	groupIndex map[string]*Group
}

// Group is a card of related entries sharing one price column layout.
// Description and Image come from the first row that introduces the group.
type Group struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	Items       []GroupItem `json:"items"`
}

type GroupItem struct {
	Name  string `json:"name"`
	Price string `json:"price,omitempty"`
	Badge string `json:"badge,omitempty"`
}

type Item struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Image       string `json:"image"`
	Special     bool   `json:"special"`
	Badge       string `json:"badge,omitempty"`
	RibbonText  string `json:"ribbon_text,omitempty"`
}

type Announcement struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
