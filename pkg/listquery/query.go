// Package listquery is a reusable controller for admin list screens: one
// parameterized search/filter/sort/paginate/select/bulk-action state machine
// shared by every resource list instead of a bespoke copy per screen.
package listquery

// SortDirection orders a list column
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FilterAll is the sentinel value that clears a structured filter.
const FilterAll = "all"

// QueryState holds the operator's current search, filters, sort and page.
// It is pure data; transitions that need pagination metadata (page clamping)
// live on the Controller.
type QueryState struct {
	SearchText string
	Filters    map[string]string
	SortField  string
	SortDir    SortDirection
	Page       int
}

// NewQueryState returns a state at page 1 with the given default sort
func NewQueryState(sortField string, sortDir SortDirection) QueryState {
	return QueryState{
		Filters:   make(map[string]string),
		SortField: sortField,
		SortDir:   sortDir,
		Page:      1,
	}
}

// Clone returns a deep copy so snapshots cannot alias the live filter map
func (q QueryState) Clone() QueryState {
	c := q
	c.Filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		c.Filters[k] = v
	}
	return c
}

// Filter returns the value for a structured filter, or "" when unset
func (q QueryState) Filter(name string) string {
	return q.Filters[name]
}

func (q *QueryState) setSearchText(text string) {
	q.SearchText = text
	q.Page = 1
}

// setFilter stores a structured filter. The "all" sentinel or an empty value
// clears it. Either way the page resets to 1.
func (q *QueryState) setFilter(name, value string) {
	if value == "" || value == FilterAll {
		delete(q.Filters, name)
	} else {
		q.Filters[name] = value
	}
	q.Page = 1
}

// setSort flips the direction when the field is already active, otherwise
// switches to the new field descending.
func (q *QueryState) setSort(field string) {
	if field == q.SortField {
		if q.SortDir == SortAsc {
			q.SortDir = SortDesc
		} else {
			q.SortDir = SortAsc
		}
	} else {
		q.SortField = field
		q.SortDir = SortDesc
	}
	q.Page = 1
}
