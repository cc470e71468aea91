package pagination

import "fmt"

// Page identifies a position in a Relay connection.
// Two pages are the same page when all fields are equal.
type Page struct {
	EndCursor       string
	StartCursor     string
	HasNextPage     bool
	HasPreviousPage bool
}

// PageInfo is the wire shape of a Relay pageInfo object.
// Cursors are pointers because the protocol allows null.
type PageInfo struct {
	EndCursor       *string `json:"endCursor"`
	StartCursor     *string `json:"startCursor"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
}

// Page converts the wire representation into a Page.
func (pi PageInfo) Page() Page {
	p := Page{
		HasNextPage:     pi.HasNextPage,
		HasPreviousPage: pi.HasPreviousPage,
	}
	if pi.EndCursor != nil {
		p.EndCursor = *pi.EndCursor
	}
	if pi.StartCursor != nil {
		p.StartCursor = *pi.StartCursor
	}
	return p
}

// Slot is either NoPage or a fetched Page.
// The zero value is NoPage.
type Slot struct {
	page  Page
	valid bool
}

// NoPage is the slot for "no page fetched yet".
var NoPage = Slot{}

// Some returns the slot holding p.
func Some(p Page) Slot {
	return Slot{page: p, valid: true}
}

// Get returns the page held by the slot and whether there is one.
func (s Slot) Get() (Page, bool) {
	return s.page, s.valid
}

// IsNoPage reports whether the slot is the NoPage sentinel.
func (s Slot) IsNoPage() bool {
	return !s.valid
}

// String implements fmt.Stringer.
func (s Slot) String() string {
	if !s.valid {
		return "NoPage"
	}
	return fmt.Sprintf("Page(end=%q next=%t)", s.page.EndCursor, s.page.HasNextPage)
}
