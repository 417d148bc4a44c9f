package autocomplete

import "github.com/bastiangx/geoserve/pkg/geocode"

// SearchState is a snapshot of the controller.
// Selected is -1 when nothing is selected, which is always the case for an empty list.
type SearchState struct {
	Query    string
	Results  []geocode.Result
	Selected int
	Visible  bool
	Focused  bool
	Loading  bool
	Err      error
}

// SelectedResult returns the highlighted result, if any.
func (s SearchState) SelectedResult() (geocode.Result, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Results) {
		return geocode.Result{}, false
	}
	return s.Results[s.Selected], true
}

// ShowList reports whether a list should be drawn: visible and non-empty.
func (s SearchState) ShowList() bool {
	return s.Visible && len(s.Results) > 0
}

func (s SearchState) clone() SearchState {
	out := s
	out.Results = make([]geocode.Result, len(s.Results))
	copy(out.Results, s.Results)
	return out
}

// Item is one rendered list row.
type Item struct {
	Label    string
	Selected bool
	Result   geocode.Result
}

// ItemRenderer renders a list row. Front ends plug their own markup in here;
// the controller only supplies the label and the selected flag.
type ItemRenderer interface {
	RenderItem(item Item, index int) string
}

// RenderFunc adapts a function to ItemRenderer.
type RenderFunc func(item Item, index int) string

// RenderItem calls f.
func (f RenderFunc) RenderItem(item Item, index int) string {
	return f(item, index)
}
