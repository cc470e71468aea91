package pagination

import "slices"

// Ledger tracks the pages seen so far and the output produced for each.
// Pages are kept in fetch order; the NoPage sentinel always sits at index 0.
// A Ledger is not safe for concurrent use.
type Ledger[O any] struct {
	pages   []Slot
	current Slot
	outputs map[Slot]O
}

// NewLedger returns an empty ledger.
func NewLedger[O any]() *Ledger[O] {
	l := &Ledger[O]{}
	l.Reset()
	return l
}

// Record stores output for page and returns the page's slot.
//
// A page equal to one already known replaces it in place and leaves the
// current page untouched. Any other page is appended and becomes current.
// The output is stored either way, replacing an earlier one.
func (l *Ledger[O]) Record(page Page, output O) (slot Slot, added bool) {
	slot = Some(page)
	if i := slices.Index(l.pages, slot); i >= 0 {
		l.pages[i] = slot
	} else {
		l.pages = append(l.pages, slot)
		l.current = slot
		added = true
	}
	l.outputs[slot] = output
	return slot, added
}

// Outputs returns the recorded outputs in page order.
// Pages without an output are skipped.
func (l *Ledger[O]) Outputs() []O {
	out := make([]O, 0, len(l.outputs))
	for _, p := range l.pages {
		if o, ok := l.outputs[p]; ok {
			out = append(out, o)
		}
	}
	return out
}

// Output returns the output recorded for slot.
func (l *Ledger[O]) Output(slot Slot) (O, bool) {
	o, ok := l.outputs[slot]
	return o, ok
}

// Pages returns a copy of the known pages, starting with NoPage.
func (l *Ledger[O]) Pages() []Slot {
	return slices.Clone(l.pages)
}

// Current returns the most recently added page, or NoPage.
func (l *Ledger[O]) Current() Slot {
	return l.current
}

// Len returns the number of slots including the sentinel.
func (l *Ledger[O]) Len() int {
	return len(l.pages)
}

// Reset returns the ledger to its initial state.
func (l *Ledger[O]) Reset() {
	l.pages = []Slot{NoPage}
	l.current = NoPage
	l.outputs = make(map[Slot]O)
}
