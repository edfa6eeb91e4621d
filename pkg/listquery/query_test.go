package listquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryTransitionsResetPage(t *testing.T) {
	q := NewQueryState("created_at", SortDesc)
	q.Page = 3

	q.setSearchText("gpt")
	assert.Equal(t, 1, q.Page)

	q.Page = 3
	q.setFilter("status", "published")
	assert.Equal(t, 1, q.Page)

	q.Page = 3
	q.setSort("views")
	assert.Equal(t, 1, q.Page)
}

func TestSetFilterSentinelClears(t *testing.T) {
	q := NewQueryState("created_at", SortDesc)

	q.setFilter("status", "published")
	assert.Equal(t, "published", q.Filter("status"))

	q.setFilter("status", FilterAll)
	assert.Empty(t, q.Filter("status"))

	q.setFilter("status", "draft")
	q.setFilter("status", "")
	assert.Empty(t, q.Filter("status"))
}

func TestSetSortToggle(t *testing.T) {
	q := NewQueryState("created_at", SortDesc)

	// New field starts descending
	q.setSort("views")
	assert.Equal(t, "views", q.SortField)
	assert.Equal(t, SortDesc, q.SortDir)

	// Same field toggles direction, never the field
	q.setSort("views")
	assert.Equal(t, "views", q.SortField)
	assert.Equal(t, SortAsc, q.SortDir)

	q.setSort("views")
	assert.Equal(t, "views", q.SortField)
	assert.Equal(t, SortDesc, q.SortDir)
}

func TestCloneDoesNotAliasFilters(t *testing.T) {
	q := NewQueryState("created_at", SortDesc)
	q.setFilter("status", "published")

	c := q.Clone()
	c.Filters["status"] = "draft"

	assert.Equal(t, "published", q.Filter("status"))
}

func TestTotalPagesFor(t *testing.T) {
	assert.Equal(t, 4, TotalPagesFor(48, 15))
	assert.Equal(t, 1, TotalPagesFor(0, 15))
	assert.Equal(t, 1, TotalPagesFor(15, 15))
	assert.Equal(t, 2, TotalPagesFor(16, 15))
}
